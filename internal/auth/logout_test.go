package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logoutContext(t *testing.T, claims *jwt.RegisteredClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(http.MethodPost, "/logout", nil)
	require.NoError(t, err)
	c.Request = req
	if claims != nil {
		c.Set("claims", claims)
	}
	return c, rec
}

func TestLogoutBlacklistsTokenID(t *testing.T) {
	store := &InMemoryBlacklistStore{blacklist: make(map[string]time.Time)}
	controller := NewLogoutController(store)

	claims := &jwt.RegisteredClaims{
		ID:        "logout-jti",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	c, rec := logoutContext(t, claims)
	controller.LogoutHandler(c)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	blacklisted, err := store.IsBlacklisted("logout-jti")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestLogoutWithoutClaims(t *testing.T) {
	store := &InMemoryBlacklistStore{blacklist: make(map[string]time.Time)}
	controller := NewLogoutController(store)

	c, rec := logoutContext(t, nil)
	controller.LogoutHandler(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInMemoryBlacklistCleanup(t *testing.T) {
	store := &InMemoryBlacklistStore{blacklist: make(map[string]time.Time)}

	require.NoError(t, store.AddToBlacklist("expired", time.Now().Add(-time.Minute)))
	require.NoError(t, store.AddToBlacklist("live", time.Now().Add(time.Hour)))

	store.CleanUpExpired()

	gone, err := store.IsBlacklisted("expired")
	require.NoError(t, err)
	assert.False(t, gone)

	kept, err := store.IsBlacklisted("live")
	require.NoError(t, err)
	assert.True(t, kept)
}
