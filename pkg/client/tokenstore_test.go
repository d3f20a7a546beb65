package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewFileTokenStore(path)

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)

	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.Save(&Credentials{
		Token:     "tok",
		ExpiresAt: expires,
		User:      &User{ID: "u1", Email: "a@x.com", EnrolledCourseIDs: []string{"c1"}},
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok", loaded.Token)
	assert.True(t, expires.Equal(loaded.ExpiresAt))
	assert.Equal(t, []string{"c1"}, loaded.User.EnrolledCourseIDs)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileTokenStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unterminated"), 0o600))

	_, err := NewFileTokenStore(path).Load()
	assert.Error(t, err)
}

func TestMemoryTokenStoreCopies(t *testing.T) {
	store := NewMemoryTokenStore()
	creds := &Credentials{Token: "a"}
	require.NoError(t, store.Save(creds))
	creds.Token = "b"

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.Token)

	require.NoError(t, store.Clear())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCredentialsExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Credentials{}).Expired(now))
	assert.False(t, (&Credentials{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Credentials{ExpiresAt: now}).Expired(now))
}
