package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
	"github.com/noah-isme/assignment-organizer/pkg/response"
)

// ContextStudentKey is the gin context key storing the caller's student row.
const ContextStudentKey = "currentStudent"

type studentResolver interface {
	Current(ctx context.Context, claims *models.JWTClaims) (*models.Student, error)
}

// CurrentStudent loads the caller's student row, creating it on first use.
// It must run after JWT.
func CurrentStudent(students studentResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, _ := value.(*models.JWTClaims)

		student, err := students.Current(c.Request.Context(), claims)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextStudentKey, student)
		c.Next()
	}
}

// RequireProfessor rejects callers who are not professors.
func RequireProfessor() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextStudentKey)
		student, ok := value.(*models.Student)
		if !exists || !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !student.Professor {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "professor role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
