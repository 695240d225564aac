package auth

import (
	"context"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	SECRET_KEY = "unit-test-secret"

	teardown, db, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("Unable to start test database: %v", err)
	}
	testDB = db

	code := m.Run()

	if err := teardown(context.Background()); err != nil {
		log.Printf("Unable to stop test database: %v", err)
	}
	os.Exit(code)
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, map[string]string{
		"email":        "newhire@example.com",
		"password":     "FreshPass123!",
		"display_name": "New Hire",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, model.ApprovalPending, resp["approval_status"])
	assert.Equal(t, model.RoleUser, resp["role"])

	var user model.User
	require.NoError(t, testDB.Where("email = ?", "newhire@example.com").First(&user).Error)
	assert.Equal(t, "New Hire", user.DisplayName)
	assert.NotEqual(t, "FreshPass123!", user.Password, "password must be stored hashed")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, map[string]string{
		"email":    *database.TestRecruiter1.Email,
		"password": "AnotherPass123!",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "already exist")
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, map[string]string{
		"email":    "shortpass@example.com",
		"password": "short",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginApprovedAccount(t *testing.T) {
	token, err := GetAccessToken(t, testDB, *database.TestRecruiter1.Email, database.TestSeedPassword)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ValidatedToken(token)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestLoginWrongPassword(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    *database.TestRecruiter1.Email,
		"password": "definitely-not-it",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    "nobody@example.com",
		"password": database.TestSeedPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginPendingAccountRefused(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    *database.TestPendingUser.Email,
		"password": database.TestSeedPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "approval")
}

func TestLoginRejectedAccountRefused(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    *database.TestRejectedUser.Email,
		"password": database.TestSeedPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "rejected")
}
