package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/utilities"
)

// ResetCredentialHeader carries the out-of-band admin reset credential.
const ResetCredentialHeader = "X-Admin-Reset-Credential"

// ResetPasswordHandler lets an operator holding the reset credential replace
// the password of any local account. The credential lives only in the
// environment, never in the database.
type ResetPasswordHandler struct {
	DB         *database.DBinstanceStruct
	credential string
}

// NewResetPasswordHandler creates a ResetPasswordHandler. It exits when
// ADMIN_RESET_CREDENTIAL is unset so a misconfigured deploy cannot expose an
// unguarded reset endpoint.
func NewResetPasswordHandler(db *database.DBinstanceStruct) *ResetPasswordHandler {
	credential := os.Getenv("ADMIN_RESET_CREDENTIAL")
	if credential == "" {
		log.Fatal("ADMIN_RESET_CREDENTIAL is not set")
	}
	return &ResetPasswordHandler{
		DB:         db,
		credential: credential,
	}
}

// newResetPasswordHandlerWithCredential exists for tests.
func newResetPasswordHandlerWithCredential(db *database.DBinstanceStruct, credential string) *ResetPasswordHandler {
	return &ResetPasswordHandler{
		DB:         db,
		credential: credential,
	}
}

type resetPasswordInfo struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ResetPassword replaces the password of the account with the given email.
// @Summary Resets a local account password using the operator credential
// @Description The X-Admin-Reset-Credential header must match the server's environment credential
// @Tags Auth
// @Accept json
// @Produce json
// @Param X-Admin-Reset-Credential header string true "Operator reset credential"
// @Param Info body resetPasswordInfo true "Target email and new password"
// @Success 200 {object} map[string]bool "Password replaced"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Credential missing or wrong"
// @Failure 404 {object} utilities.ErrorResponse "No account with that email"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/reset-password [post]
func (rh *ResetPasswordHandler) ResetPassword(c *gin.Context) {
	if c.GetHeader(ResetCredentialHeader) != rh.credential {
		LogAuthAttempt("warning", "Reset", "Fail", "", "wrong reset credential")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Reset credential is missing or incorrect",
		})
		return
	}

	var info resetPasswordInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "A valid email and new password must be provided",
		})
		return
	}

	if len(info.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))

	var user model.User
	err := rh.DB.Where("email = ?", email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{
			Error: "No account with that email",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	if err := rh.DB.Model(&user).Update("password", hashedPassword).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update password: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Reset", "Success", email, "password replaced by operator")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
