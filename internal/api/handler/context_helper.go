package handler

import (
	"github.com/gin-gonic/gin"

	"skoolife/backend/pkg/jwt"
	"skoolife/backend/pkg/response"
)

// MustGetUserID extracts user_id from the Gin context. When the JWT
// middleware did not inject it, a 401 is written and ok=false returned;
// callers should return immediately then.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetClaims extracts the parsed JWT claims from the Gin context.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return claims, true
}
