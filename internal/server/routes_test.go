package server

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TalentScope-backend/internal/auth"
	"TalentScope-backend/internal/controller/file"
	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/testutil"
	"TalentScope-backend/internal/viewstate"
)

var (
	testDB     *database.DBinstanceStruct
	testRouter *gin.Engine
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.SECRET_KEY = "unit-test-secret"
	os.Setenv("ADMIN_RESET_CREDENTIAL", "operator-secret")
	os.Setenv("RATE_LIMIT_REQUESTS_PER_SECOND", "1000")

	teardown, db, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("Unable to start test database: %v", err)
	}
	testDB = db

	s := &MyServer{
		DB:        testDB,
		Storage:   file.NewMemoryStorage(),
		ViewStore: viewstate.NewMemoryStore(viewstate.SessionTTL),
		Blacklist: auth.NewInMemoryBlacklistStore(),
	}
	testRouter = s.RegisterRoutes().(*gin.Engine)

	code := m.Run()

	if err := teardown(context.Background()); err != nil {
		log.Printf("Unable to stop test database: %v", err)
	}
	os.Exit(code)
}

func login(t *testing.T, email, password string) string {
	t.Helper()
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"email":    email,
		"password": password,
	}, "", testRouter, "/api/v1/auth/login", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := resp["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCandidatesRequireToken(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCandidatesWithToken(t *testing.T) {
	token := login(t, *database.TestRecruiter1.Email, database.TestSeedPassword)

	rec, resp := testutil.MakeJSONRequest(nil, token, testRouter, "/api/v1/candidates", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, resp["candidates"])
}

func TestAdminRoutesForbiddenForRecruiter(t *testing.T) {
	token := login(t, *database.TestRecruiter1.Email, database.TestSeedPassword)

	rec, _ := testutil.MakeJSONRequest(nil, token, testRouter, "/api/v1/users", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutesAllowedForAdmin(t *testing.T) {
	token := login(t, *database.TestAdminUser.Email, database.TestSeedPassword)

	rec, _ := testutil.MakeJSONRequest(nil, token, testRouter, "/api/v1/users", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestGlobalStatsAdminOnly(t *testing.T) {
	recruiter := login(t, *database.TestRecruiter1.Email, database.TestSeedPassword)
	rec, _ := testutil.MakeJSONRequest(nil, recruiter, testRouter, "/api/v1/stats", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := login(t, *database.TestAdminUser.Email, database.TestSeedPassword)
	rec, resp := testutil.MakeJSONRequest(nil, admin, testRouter, "/api/v1/stats", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, resp["summary"])

	// own counters stay open to every approved account
	rec, _ = testutil.MakeJSONRequest(nil, recruiter, testRouter, "/api/v1/stats/me", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPendingAccountCannotLogin(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(gin.H{
		"email":    *database.TestPendingUser.Email,
		"password": database.TestSeedPassword,
	}, "", testRouter, "/api/v1/auth/login", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	token := login(t, *database.TestRecruiter2.Email, database.TestSeedPassword)

	rec, _ := testutil.MakeJSONRequest(nil, token, testRouter, "/api/v1/auth/logout", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = testutil.MakeJSONRequest(nil, token, testRouter, "/api/v1/candidates", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestViewStateRoundTripOverRoutes(t *testing.T) {
	token := login(t, *database.TestRecruiter1.Email, database.TestSeedPassword)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"page": 3,
	}, token, testRouter, "/api/v1/viewstate/candidates", http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, resp := testutil.MakeJSONRequest(nil, token, testRouter, "/api/v1/viewstate/candidates", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, resp["page"])

	// a fresh login is a new session and must start empty
	fresh := login(t, *database.TestRecruiter1.Email, database.TestSeedPassword)
	req, err := http.NewRequest(http.MethodGet, "/api/v1/viewstate/candidates", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+fresh)
	noContent := httptest.NewRecorder()
	testRouter.ServeHTTP(noContent, req)
	assert.Equal(t, http.StatusNoContent, noContent.Code)
}

func TestResetPasswordRoute(t *testing.T) {
	payload := gin.H{
		"email":       *database.TestRecruiter2.Email,
		"newPassword": "RoutedPass123!",
	}
	rec, _ := testutil.MakeJSONRequestWithHeaders(payload, map[string]string{
		auth.ResetCredentialHeader: "operator-secret",
	}, testRouter, "/api/v1/auth/reset-password", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login(t, *database.TestRecruiter2.Email, "RoutedPass123!")

	// restore seed password
	payload["newPassword"] = database.TestSeedPassword
	rec, _ = testutil.MakeJSONRequestWithHeaders(payload, map[string]string{
		auth.ResetCredentialHeader: "operator-secret",
	}, testRouter, "/api/v1/auth/reset-password", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)
}
