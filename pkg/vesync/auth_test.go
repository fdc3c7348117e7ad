package vesync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

func TestCredentialsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	creds := &Credentials{
		Username:    "user@example.com",
		Password:    "hunter2",
		AccountID:   "acct-1",
		Token:       "tok-1",
		CountryCode: "US",
	}

	require.NoError(t, creds.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, creds, loaded)
}

func TestLoadCredentialsMissing(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestLoadCredentialsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadCredentials(path)
	require.Error(t, err)
}

func TestAuthenticated(t *testing.T) {
	var nilCreds *Credentials
	assert.False(t, nilCreds.Authenticated())
	assert.False(t, (&Credentials{Token: "t"}).Authenticated())
	assert.False(t, (&Credentials{AccountID: "a"}).Authenticated())
	assert.True(t, (&Credentials{Token: "t", AccountID: "a"}).Authenticated())
}
