package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/utilities"
)

// GoogleUserInfo mirrors the fields we read from Google's userinfo endpoint.
type GoogleUserInfo struct {
	GID        string `json:"id"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
}

// OauthLoginHandler struct use for creating method on handling oauth
type OauthLoginHandler struct {
	DB               *database.DBinstanceStruct
	OauthConfig      *oauth2.Config
	UserInfoEndpoint string
}

// NewOauthLoginHandler creates a new instance of OauthLoginHandler with the provided database connection and oauth config.
func NewOauthLoginHandler(db *database.DBinstanceStruct, oauthConfig *oauth2.Config, userInfoEndpoint string) *OauthLoginHandler {
	return &OauthLoginHandler{
		DB:               db,
		OauthConfig:      oauthConfig,
		UserInfoEndpoint: userInfoEndpoint,
	}
}

type codeRequestBody struct {
	Code string `json:"code" binding:"required"`
}

// getUserInfo exchanges the authorization code, then fetches the user's profile
// from the configured userinfo endpoint.
func (o *OauthLoginHandler) getUserInfo(c *gin.Context) (*GoogleUserInfo, error) {
	var body codeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, errors.New("authorization code is not provided")
	}

	token, err := o.OauthConfig.Exchange(c.Request.Context(), body.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := o.OauthConfig.Client(c.Request.Context(), token)
	resp, err := client.Get(o.UserInfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to request user info: %w", err)
	}
	defer resp.Body.Close()

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &userInfo, nil
}

// loginOrRegisterUser loads the account bound to the Google ID, creating a
// pending one on first sign-in. Approval rules are the same as local login.
func (o *OauthLoginHandler) loginOrRegisterUser(userInfo *GoogleUserInfo) (*model.User, bool, error) {
	var user model.User
	err := o.DB.Where("google_id = ?", userInfo.GID).First(&user).Error

	switch {
	case err == nil:
		return &user, false, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		return nil, false, err
	}

	email := strings.ToLower(strings.TrimSpace(userInfo.Email))
	displayName := strings.TrimSpace(userInfo.GivenName + " " + userInfo.FamilyName)
	if displayName == "" {
		displayName = email
	}

	user = model.User{
		Email:          &email,
		DisplayName:    displayName,
		GoogleID:       userInfo.GID,
		Role:           model.RoleUser,
		ApprovalStatus: model.ApprovalPending,
	}
	if err := o.DB.Create(&user).Error; err != nil {
		return nil, false, err
	}

	return &user, true, nil
}

// GoogleLoginHandler handles login or register with a Google account.
// @Summary Handles login or register with Google account
// @Description Exchanges the authorization code for the Google profile. First
// @Description sign-in creates a pending account that still needs admin approval.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body codeRequestBody true "Authorization code from Google"
// @Success 200 {object} model.AuthResponse "Login success"
// @Success 201 {object} model.User "Pending account created"
// @Failure 400 {object} utilities.ErrorResponse "Code missing or exchange failed"
// @Failure 403 {object} utilities.ErrorResponse "Account pending approval or rejected"
// @Failure 500 {object} utilities.ErrorResponse "Database or token error"
// @Router /auth/google [post]
func (o *OauthLoginHandler) GoogleLoginHandler(c *gin.Context) {
	userInfo, err := o.getUserInfo(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	user, created, err := o.loginOrRegisterUser(userInfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if created {
		LogAuthAttempt("info", "Google", "Success", userInfo.Email, "registered, awaiting approval")
		c.JSON(http.StatusCreated, user)
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

	LogAuthAttempt("info", "Google", "Success", userInfo.Email, "")
	resp := model.AuthResponse{User: *user}
	resp.SetAccessToken(accessToken)
	c.JSON(http.StatusOK, resp)
}

// Callback echoes the authorization code back so a frontend in development can
// grab it without a running SPA.
// @Summary Echoes the oauth authorization code
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/google/callback [get]
func (o *OauthLoginHandler) Callback(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code": c.Query("code"),
	})
}
