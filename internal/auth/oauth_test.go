package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TalentScope-backend/internal/model"
)

func TestLoginOrRegisterUserFirstSignIn(t *testing.T) {
	handler := &OauthLoginHandler{DB: testDB}

	info := &GoogleUserInfo{
		GID:        "google-id-001",
		GivenName:  "Grace",
		FamilyName: "Hopper",
		Email:      "grace@example.com",
	}

	user, created, err := handler.loginOrRegisterUser(info)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.ApprovalPending, user.ApprovalStatus)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, "Grace Hopper", user.DisplayName)
	require.NotNil(t, user.Email)
	assert.Equal(t, "grace@example.com", *user.Email)

	// second sign-in resolves to the same account
	again, createdAgain, err := handler.loginOrRegisterUser(info)
	require.NoError(t, err)
	assert.False(t, createdAgain)
	assert.Equal(t, user.ID, again.ID)
}
