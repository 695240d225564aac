package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"TalentScope-backend/internal/auth"
	"TalentScope-backend/internal/utilities"
)

// JwtBlacklistCheck is a middleware that refuses tokens whose id was
// blacklisted by logout. Mount after RequireAuth so claims are present.
func JwtBlacklistCheck(bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rawClaims, ok := ctx.Get("claims")
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token claims not provided",
			})
			return
		}

		claims, okCast := rawClaims.(*jwt.RegisteredClaims)
		if !okCast {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Invalid token claims type",
			})
			return
		}

		isBlacklisted, err := bl.IsBlacklisted(claims.ID)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to validate token: %s", err.Error()),
			})
			return
		}

		if isBlacklisted {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token has been revoked",
			})
			return
		}

		ctx.Next()
	}
}
