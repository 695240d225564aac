package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/utilities"
)

// RequireApproved refuses requests from accounts that are still pending or
// were rejected. Tokens issued before an approval flip are caught here since
// the status is re-read on every request.
func RequireApproved() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		switch user.ApprovalStatus {
		case model.ApprovalApproved:
			ctx.Next()
		case model.ApprovalRejected:
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "Account has been rejected",
			})
		default:
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "Account is waiting for admin approval",
			})
		}
	}
}
