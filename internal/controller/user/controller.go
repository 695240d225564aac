// Package user provides admin endpoints for account approval and roles.
package user

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

type UserController struct {
	DB *database.DBinstanceStruct
}

func NewUserController(db *database.DBinstanceStruct) *UserController {
	return &UserController{
		DB: db,
	}
}

// GetUsers function query accounts from the database based on given query "approval" and "role"
// @Summary Get users based on given query
// @Description Only admin can access this endpoints
// @Description If no query given, the server will return all accounts
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param approval query string false "Space separated: pending, approved, or rejected with case insensitive" example(pending rejected)
// @Param role query string false "Space separated: user, admin, or super_admin with case insensitive" example(admin)
// @Success 200 {array} model.User
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users [get]
func (uc *UserController) GetUsers(c *gin.Context) {
	rawApproval := c.Query("approval")
	rawRole := c.Query("role")

	result := uc.DB.Model(&model.User{})
	if rawApproval != "" {
		approval := strings.Split(rawApproval, " ")
		for i := range approval {
			approval[i] = strings.ToLower(approval[i])
		}
		result = result.Where("approval_status IN ?", approval)
	}

	if rawRole != "" {
		role := strings.Split(rawRole, " ")
		for i := range role {
			role[i] = strings.ToLower(role[i])
		}
		result = result.Where("role IN ?", role)
	}

	var users []model.User
	if err := result.Order("created_at ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, users)
}

// SetApproval function allow admin to change approval status of given account
// @Summary Approve, or reject accounts
// @Description Only admin can access this endpoints
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param user_id path string true "User ID"
// @Param status query string false "Status is case insensitive and allow only approved, rejected, or pending (approved by default)" default(approved)
// @Success 200 {object} model.User
// @Failure 400 {object} utilities.ErrorResponse "Unknown status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Given user ID not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/{user_id}/approval [patch]
func (uc *UserController) SetApproval(c *gin.Context) {
	status := strings.ToLower(c.DefaultQuery("status", model.ApprovalApproved))

	allowedStatus := map[string]bool{
		model.ApprovalApproved: true,
		model.ApprovalRejected: true,
		model.ApprovalPending:  true,
	}
	if !allowedStatus[status] {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown status: %s", status),
		})
		return
	}

	user, ok := uc.lookup(c)
	if !ok {
		return
	}

	user.ApprovalStatus = status
	if err := uc.DB.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// SetRole function allow admin to change role of given account. The
// super_admin role is bootstrap-only and cannot be granted here.
// @Summary Change account role
// @Description Only admin can access this endpoints
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param user_id path string true "User ID"
// @Param role query string true "Role is case insensitive and allow only user or admin"
// @Success 200 {object} model.User
// @Failure 400 {object} utilities.ErrorResponse "Unknown role"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Given user ID not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/{user_id}/role [patch]
func (uc *UserController) SetRole(c *gin.Context) {
	role := strings.ToLower(c.Query("role"))

	allowedRoles := map[string]bool{
		model.RoleUser:  true,
		model.RoleAdmin: true,
	}
	if !allowedRoles[role] {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown role: %s", role),
		})
		return
	}

	user, ok := uc.lookup(c)
	if !ok {
		return
	}

	if user.Role == model.RoleSuperAdmin {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Cannot change the role of a super_admin account",
		})
		return
	}

	user.Role = role
	if err := uc.DB.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) lookup(c *gin.Context) (*model.User, bool) {
	userID := c.Param("user_id")

	var user model.User
	err := uc.DB.First(&user, "id = ?", userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{
			Error: fmt.Sprintf("%s does not exist in the database", userID),
		})
		return nil, false

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return nil, false
	}
	return &user, true
}
