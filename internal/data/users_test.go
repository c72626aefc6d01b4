package data

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertDuplicateEmail(t *testing.T) {
	models := NewModels(newTestDB(t))
	newTestUser(t, models, "alice@example.com")

	user := &User{Name: "Other Alice", Email: "alice@example.com"}
	user.Password.hash = []byte("hash")

	assert.ErrorIs(t, models.Users.Insert(user), ErrDuplicateEmail)
}

func TestPasswordMatches(t *testing.T) {
	var p password
	require.NoError(t, p.Set("pa55word1"))

	ok, err := p.Matches("pa55word1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matches("wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmailTaken(t *testing.T) {
	models := NewModels(newTestDB(t))
	newTestUser(t, models, "alice@example.com")

	taken, err := models.Users.EmailTaken("alice@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = models.Users.EmailTaken("bob@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestActivationTokenFlow(t *testing.T) {
	models := NewModels(newTestDB(t))

	user := &User{Name: "Alice", Email: "alice@example.com"}
	user.Password.hash = []byte("hash")
	require.NoError(t, models.Users.Insert(user))

	token, err := models.Tokens.New(user.ID, 24*time.Hour, ScopeActivation)
	require.NoError(t, err)
	assert.Len(t, token.Plaintext, 26)

	found, err := models.Users.GetForToken(ScopeActivation, token.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.False(t, found.Activated)

	found.Activated = true
	require.NoError(t, models.Users.Update(found))
	assert.Equal(t, 2, *found.Version)

	require.NoError(t, models.Tokens.DeleteAllForUser(ScopeActivation, user.ID))

	_, err = models.Users.GetForToken(ScopeActivation, token.Plaintext)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	stored, err := models.Users.Get(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Activated)
}

func TestUpdateDetectsEditConflict(t *testing.T) {
	models := NewModels(newTestDB(t))
	newTestUser(t, models, "alice@example.com")

	first, err := models.Users.GetByEmail("alice@example.com")
	require.NoError(t, err)
	second, err := models.Users.GetByEmail("alice@example.com")
	require.NoError(t, err)

	first.Name = "Alice A."
	require.NoError(t, models.Users.Update(first))

	second.Name = "Alice B."
	assert.ErrorIs(t, models.Users.Update(second), ErrEditConflict)
}

func TestPermissions(t *testing.T) {
	models := NewModels(newTestDB(t))
	user := newTestUser(t, models, "alice@example.com")

	permissions, err := models.Permissions.GetAllForUser(user.ID)
	require.NoError(t, err)
	assert.False(t, permissions.Include(PermissionFilmsRead))

	require.NoError(t, models.Permissions.AddForUser(user.ID, PermissionFilmsRead, PermissionFilmsWrite))

	permissions, err = models.Permissions.GetAllForUser(user.ID)
	require.NoError(t, err)
	assert.True(t, permissions.Include(PermissionFilmsRead))
	assert.True(t, permissions.Include(PermissionFilmsWrite))
	assert.False(t, permissions.Include("admin"))
}

func TestCodeFilter(t *testing.T) {
	codes := []string{PermissionFilmsRead, PermissionFilmsWrite}

	query, arg := codeFilter("postgres", codes)
	assert.Equal(t, "code = ANY(?)", query)
	array, ok := arg.(pq.StringArray)
	require.True(t, ok)
	value, err := array.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"films:read","films:write"}`, value)

	query, arg = codeFilter("sqlite", codes)
	assert.Equal(t, "code IN ?", query)
	assert.Equal(t, codes, arg)
}

func TestDeleteExpiredTokens(t *testing.T) {
	models := NewModels(newTestDB(t))
	user := newTestUser(t, models, "alice@example.com")

	live, err := models.Tokens.New(user.ID, time.Hour, ScopeActivation)
	require.NoError(t, err)
	_, err = models.Tokens.New(user.ID, -time.Minute, ScopeActivation)
	require.NoError(t, err)

	n, err := models.Tokens.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := models.Users.GetForToken(ScopeActivation, live.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}
