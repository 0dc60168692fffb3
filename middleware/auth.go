package middleware

import (
	"net/http"
	"os"
	"strings"

	"admissions-api/config"
	"admissions-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ActorAdmin     = "admin"
	ActorCandidate = "candidate"
)

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
	Actor  string `json:"actor"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the JWT and loads the actor (admin or
// candidate) it belongs to.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Check the actor still exists
		switch claims.Actor {
		case ActorCandidate:
			var candidate models.Candidate
			if err := config.DB.Where("candidate_id = ? AND delete_at IS NULL", claims.UserID).First(&candidate).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Candidate not found"})
				c.Abort()
				return
			}
		default:
			var user models.AdminUser
			if err := config.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).First(&user).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				c.Abort()
				return
			}
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("roleID", claims.RoleID)
		c.Set("actor", claims.Actor)

		c.Next()
	}
}

// RequireRole checks if the authenticated admin has one of the roles.
func RequireRole(roleIDs ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := c.Get("actor")
		if actor != ActorAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		userRoleID, exists := c.Get("roleID")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found"})
			c.Abort()
			return
		}

		userRole := userRoleID.(int)
		allowed := false
		for _, roleID := range roleIDs {
			if userRole == roleID {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireCandidate restricts a route to candidate tokens.
func RequireCandidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := c.Get("actor")
		if actor != ActorCandidate {
			c.JSON(http.StatusForbidden, gin.H{"error": "Candidate access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
