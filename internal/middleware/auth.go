package middleware

import (
	"net/http"
	"os"
	"strings"

	"backend/internal/workflow"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // development fallback, never for production
	}
	return []byte(secret)
}

// Claims parsed from a validated token. Handlers read these via
// ActorFromContext instead of touching the gin keys directly.
const (
	ctxUserID     = "userID"
	ctxUsername   = "username"
	ctxRole       = "userRole"
	ctxDepartment = "userDepartment"
)

// ActorFromContext rebuilds the acting user from the claims stored by
// RequireAuth or RequireRole.
func ActorFromContext(c *gin.Context) workflow.Actor {
	return workflow.Actor{
		Username:   c.GetString(ctxUsername),
		Role:       workflow.Role(c.GetString(ctxRole)),
		Department: c.GetString(ctxDepartment),
	}
}

// RequireAuth validates the bearer token without restricting the role.
func RequireAuth() gin.HandlerFunc {
	return requireRoles(nil)
}

// RequireRole validates the bearer token and checks that the user's role
// is one of allowedRoles. Admins always pass.
func RequireRole(allowedRoles ...workflow.Role) gin.HandlerFunc {
	return requireRoles(allowedRoles)
}

func requireRoles(allowedRoles []workflow.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		roleStr, ok := claims["role"].(string)
		role := workflow.Role(roleStr)
		if !ok || !workflow.ValidRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}

		if len(allowedRoles) > 0 && role != workflow.RoleAdmin {
			allowed := false
			for _, r := range allowedRoles {
				if role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
				return
			}
		}

		c.Set(ctxUserID, claims["sub"])
		if username, ok := claims["username"].(string); ok {
			c.Set(ctxUsername, username)
		}
		c.Set(ctxRole, string(role))
		if department, ok := claims["department"].(string); ok {
			c.Set(ctxDepartment, department)
		}

		c.Next()
	}
}
