package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"skoolife/backend/pkg/jwt"
	"skoolife/backend/pkg/redis"
	"skoolife/backend/pkg/response"
)

// JWTAuth extracts and verifies the access token from
// Authorization: Bearer <token>, then rejects blacklisted jtis.
// rdb may be nil; the blacklist check is skipped then.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "wrong token type")
			c.Abort()
			return
		}

		if rdb != nil {
			blocked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blocked {
				response.Unauthorized(c, 10002, "token revoked")
				c.Abort()
				return
			}
			// a Redis error degrades to allowing the token through
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// RoleAuth checks that the authenticated user holds one of the given roles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "insufficient privileges")
		c.Abort()
	}
}
