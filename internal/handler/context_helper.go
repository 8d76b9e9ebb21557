package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/assignment-organizer/internal/middleware"
	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
	"github.com/noah-isme/assignment-organizer/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func studentFromContext(c *gin.Context) *models.Student {
	value, exists := c.Get(middleware.ContextStudentKey)
	if !exists {
		return nil
	}
	student, ok := value.(*models.Student)
	if !ok {
		return nil
	}
	return student
}

// requireStudent writes 401 and returns nil when no student is attached.
func requireStudent(c *gin.Context) *models.Student {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil
	}
	return student
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
