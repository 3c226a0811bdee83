package middleware

import (
	"net/http"
	"strings"

	staffRepo "serenity/database/repository/staff"
	"serenity/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthStaffMiddleware guards dashboard endpoints. The token subject must
// resolve to an active staff user; the user is stored on the context as
// "staff" and "staffID".
func JWTAuthStaffMiddleware(repo staffRepo.StaffRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		staffID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		staff, err := repo.GetByID(c.Request.Context(), staffID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set("staffID", staff.ID)
		c.Set("staff", staff)
		c.Next()
	}
}
