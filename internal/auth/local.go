// Package auth contains handler relate to log in and create user account
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/utilities"
)

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler function handles local registration by receiving email and password.
// Fresh accounts start pending and cannot sign in until an admin approves them.
// @Summary Handles local registration by receiving email and password
// @Description Email must not already exist and password must longer or equal to 8 characters long
// @Description The account starts in pending state and needs admin approval before login succeeds
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "Credentials for the new account"
// @Success 201 {object} model.User "Pending account created"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email and password must be provided",
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))

	var user model.User
	err := lh.DB.Where("email = ?", email).First(&user).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email already exist",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	displayName := strings.TrimSpace(info.DisplayName)
	if displayName == "" {
		displayName = email
	}

	newUser := model.User{
		Email:          &email,
		DisplayName:    displayName,
		Password:       hashedPassword,
		Role:           model.RoleUser,
		ApprovalStatus: model.ApprovalPending,
	}
	if err := lh.DB.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Local", "Success", email, "registered, awaiting approval")
	c.JSON(http.StatusCreated, newUser)
}

// LoginHandler function handles local login by receiving email and password.
// Pending and rejected accounts are refused with an explicit reason.
// @Summary Handles local login by receiving email and password
// @Description Email must exist, password match, and the account must be approved
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.AuthResponse "Login success"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Email not exist or password incorrect"
// @Failure 403 {object} utilities.ErrorResponse "Account pending approval or rejected"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))

	var user model.User
	err := lh.DB.Where("email = ?", email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
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

	if user.Password == "" || !utilities.CheckPassword(user.Password, info.Password) {
		LogAuthAttempt("warning", "Local", "Fail", email, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return
	}

	switch user.ApprovalStatus {
	case model.ApprovalPending:
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Account is waiting for admin approval",
		})
		return
	case model.ApprovalRejected:
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Account has been rejected",
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Local", "Success", email, "")
	resp := model.AuthResponse{User: user}
	resp.SetAccessToken(accessToken)
	c.JSON(http.StatusOK, resp)
}
