package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the payload of the bearer tokens issued by the identity provider.
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
