package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TalentScope-backend/internal/database"
)

const testResetCredential = "operator-secret"

func resetCall(t *testing.T, handler *ResetPasswordHandler, credential string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(http.MethodPost, "/reset-password", bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if credential != "" {
		req.Header.Set(ResetCredentialHeader, credential)
	}
	c.Request = req
	handler.ResetPassword(c)
	return rec
}

func TestResetPasswordReplacesCredential(t *testing.T) {
	handler := newResetPasswordHandlerWithCredential(testDB, testResetCredential)

	rec := resetCall(t, handler, testResetCredential, map[string]string{
		"email":        *database.TestRecruiter2.Email,
		"newPassword": "ReplacedPass123!",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, err := GetAccessToken(t, testDB, *database.TestRecruiter2.Email, "ReplacedPass123!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// restore the seed password so other tests keep working
	rec = resetCall(t, handler, testResetCredential, map[string]string{
		"email":        *database.TestRecruiter2.Email,
		"newPassword": database.TestSeedPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordWrongCredential(t *testing.T) {
	handler := newResetPasswordHandlerWithCredential(testDB, testResetCredential)

	rec := resetCall(t, handler, "guess", map[string]string{
		"email":        *database.TestRecruiter2.Email,
		"newPassword": "ReplacedPass123!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	handler := newResetPasswordHandlerWithCredential(testDB, testResetCredential)

	rec := resetCall(t, handler, testResetCredential, map[string]string{
		"email":        "nobody@example.com",
		"newPassword": "ReplacedPass123!",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetPasswordMalformedEmail(t *testing.T) {
	handler := newResetPasswordHandlerWithCredential(testDB, testResetCredential)

	rec := resetCall(t, handler, testResetCredential, map[string]string{
		"email":       "not-an-email",
		"newPassword": "ReplacedPass123!",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetPasswordShortPassword(t *testing.T) {
	handler := newResetPasswordHandlerWithCredential(testDB, testResetCredential)

	rec := resetCall(t, handler, testResetCredential, map[string]string{
		"email":        *database.TestRecruiter2.Email,
		"newPassword": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
