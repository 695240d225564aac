package middleware

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TalentScope-backend/internal/auth"
	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.SECRET_KEY = "unit-test-secret"

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

// authRouter mounts RequireAuth in front of a probe that reports what the
// middleware put on the context.
func authRouter() *gin.Engine {
	r := gin.New()
	r.GET("/probe", RequireAuth(testDB), func(c *gin.Context) {
		user, err := utilities.ExtractUser(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":  user.ID.String(),
			"token_id": c.GetString("token_id"),
		})
	})
	return r
}

func doRequest(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "/probe", nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthValidToken(t *testing.T) {
	token, jti, err := auth.GenerateStandardToken(database.TestRecruiter1.ID)
	require.NoError(t, err)

	rec := doRequest(t, authRouter(), token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), database.TestRecruiter1.ID.String())
	assert.Contains(t, rec.Body.String(), jti)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	rec := doRequest(t, authRouter(), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Issuer:    auth.JwtIssuer,
		Subject:   database.TestRecruiter1.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(auth.SECRET_KEY))
	require.NoError(t, err)

	rec := doRequest(t, authRouter(), expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestRequireAuthWrongIssuer(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Issuer:    "SomeoneElse",
		Subject:   database.TestRecruiter1.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(auth.SECRET_KEY))
	require.NoError(t, err)

	rec := doRequest(t, authRouter(), forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "issuer")
}

func TestRequireAuthUnknownUser(t *testing.T) {
	token, _, err := auth.GenerateStandardToken(
		// random id with no matching account
		mustUUID(t),
	)
	require.NoError(t, err)

	rec := doRequest(t, authRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return id
}

func contextWithUser(user model.User) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("user", user)
	return c, rec
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	c, rec := contextWithUser(database.TestAdminUser)
	RequireAdmin()(c)
	assert.False(t, c.IsAborted())
	assert.NotEqual(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	c, _ := contextWithUser(database.TestRecruiter1)
	RequireAdmin()(c)
	assert.True(t, c.IsAborted())
}

func TestRequireAdminBootstrapAllowList(t *testing.T) {
	t.Setenv("BOOTSTRAP_ADMIN_EMAILS", " Recruiter1@example.com ,ops@example.com")

	c, _ := contextWithUser(database.TestRecruiter1)
	RequireAdmin()(c)
	assert.False(t, c.IsAborted())
}

func TestRequireApproved(t *testing.T) {
	c, _ := contextWithUser(database.TestRecruiter1)
	RequireApproved()(c)
	assert.False(t, c.IsAborted())

	c, rec := contextWithUser(database.TestPendingUser)
	RequireApproved()(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = contextWithUser(database.TestRejectedUser)
	RequireApproved()(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJwtBlacklistCheck(t *testing.T) {
	store := auth.NewInMemoryBlacklistStore()
	require.NoError(t, store.AddToBlacklist("revoked-jti", time.Now().Add(time.Hour)))

	check := JwtBlacklistCheck(store)

	// revoked token id
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("claims", &jwt.RegisteredClaims{ID: "revoked-jti"})
	check(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// live token id
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("claims", &jwt.RegisteredClaims{ID: "live-jti"})
	check(c)
	assert.False(t, c.IsAborted())
}
