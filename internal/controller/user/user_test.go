package user

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
)

var (
	db   *database.DBinstanceStruct
	ctrl *UserController
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	teardown, instance, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	db = instance
	ctrl = NewUserController(db)

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatal("could not teardown postgres container")
	}
}

func adminContext(t *testing.T, method, target string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = params
	c.Set("user", database.TestAdminUser)
	return c, rec
}

func TestGetUsersFilterByApproval(t *testing.T) {
	c, rec := adminContext(t, http.MethodGet, "/users?approval=pending", nil)

	ctrl.GetUsers(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var users []model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.NotEmpty(t, users)
	for _, u := range users {
		assert.Equal(t, model.ApprovalPending, u.ApprovalStatus)
	}
}

func TestGetUsersFilterByRole(t *testing.T) {
	c, rec := adminContext(t, http.MethodGet, "/users?role=admin super_admin", nil)

	ctrl.GetUsers(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var users []model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.NotEmpty(t, users)
	for _, u := range users {
		assert.NotEqual(t, model.RoleUser, u.Role)
	}
}

func TestSetApprovalApprovesPendingAccount(t *testing.T) {
	target := database.TestPendingUser

	c, rec := adminContext(t, http.MethodPatch,
		fmt.Sprintf("/users/%s/approval?status=approved", target.ID),
		gin.Params{{Key: "user_id", Value: target.ID.String()}})

	ctrl.SetApproval(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var row model.User
	require.NoError(t, db.First(&row, "id = ?", target.ID).Error)
	assert.Equal(t, model.ApprovalApproved, row.ApprovalStatus)

	// Put it back for other tests in this package.
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", target.ID).
		Update("approval_status", model.ApprovalPending).Error)
}

func TestSetApprovalUnknownStatus(t *testing.T) {
	c, rec := adminContext(t, http.MethodPatch,
		fmt.Sprintf("/users/%s/approval?status=maybe", database.TestPendingUser.ID),
		gin.Params{{Key: "user_id", Value: database.TestPendingUser.ID.String()}})

	ctrl.SetApproval(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetApprovalUnknownUser(t *testing.T) {
	c, rec := adminContext(t, http.MethodPatch,
		"/users/00000000-0000-0000-0000-000000000000/approval",
		gin.Params{{Key: "user_id", Value: "00000000-0000-0000-0000-000000000000"}})

	ctrl.SetApproval(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetRolePromotesAndDemotes(t *testing.T) {
	target := database.TestRecruiter1

	c, rec := adminContext(t, http.MethodPatch,
		fmt.Sprintf("/users/%s/role?role=admin", target.ID),
		gin.Params{{Key: "user_id", Value: target.ID.String()}})
	ctrl.SetRole(c)
	require.Equal(t, http.StatusOK, rec.Code)

	var row model.User
	require.NoError(t, db.First(&row, "id = ?", target.ID).Error)
	assert.Equal(t, model.RoleAdmin, row.Role)

	c, rec = adminContext(t, http.MethodPatch,
		fmt.Sprintf("/users/%s/role?role=user", target.ID),
		gin.Params{{Key: "user_id", Value: target.ID.String()}})
	ctrl.SetRole(c)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.First(&row, "id = ?", target.ID).Error)
	assert.Equal(t, model.RoleUser, row.Role)
}

func TestSetRoleRejectsSuperAdminGrant(t *testing.T) {
	c, rec := adminContext(t, http.MethodPatch,
		fmt.Sprintf("/users/%s/role?role=super_admin", database.TestRecruiter1.ID),
		gin.Params{{Key: "user_id", Value: database.TestRecruiter1.ID.String()}})

	ctrl.SetRole(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
