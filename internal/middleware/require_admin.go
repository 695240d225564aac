package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"TalentScope-backend/internal/utilities"
)

// RequireAdmin protects endpoints reserved for administrators. Access is
// granted to approved accounts holding an admin role, or to accounts whose
// email is on the bootstrap allow-list.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		if !utilities.HasAdminAccess(user) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "User doesn't have permission to access",
			})
			return
		}

		ctx.Next()
	}
}
