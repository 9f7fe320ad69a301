// internal/auth/session_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/models"
)

func testProfile() *models.Profile {
	return &models.Profile{
		ID:    "user-1",
		Email: "yasmine@example.com",
		Role:  models.RoleUser,
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Generate(testProfile())
	require.NoError(t, err)

	sess, err := m.CurrentSession(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "yasmine@example.com", sess.Email)
	assert.Equal(t, models.RoleUser, sess.Role)
	assert.False(t, sess.IsAdmin())
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)
}

func TestTokenManager_AdminRole(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	p := testProfile()
	p.Role = models.RoleAdmin
	token, err := m.Generate(p)
	require.NoError(t, err)

	sess, err := m.CurrentSession(token)
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin())
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Generate(testProfile())
	require.NoError(t, err)

	_, err = m.CurrentSession(token)
	assert.Error(t, err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate(testProfile())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).CurrentSession(token)
	assert.Error(t, err)
}

func TestTokenManager_GarbageToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	_, err := m.CurrentSession("not.a.token")
	assert.Error(t, err)
}

func TestSession_NilIsAdmin(t *testing.T) {
	var sess *Session
	assert.False(t, sess.IsAdmin())
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}
