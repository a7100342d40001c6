package sheets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestSavingTokenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	src := &savingTokenSource{
		src:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "fresh", RefreshToken: "refresh"}),
		path: path,
		last: "stale",
	}

	token, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)

	saved, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", saved.AccessToken)

	// An unchanged token is not written again.
	require.NoError(t, os.Remove(path))
	_, err = src.Token()
	require.NoError(t, err)
	assert.NoFileExists(t, path)
}

func TestTokenSource_TokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, SaveToken(path, &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}))

	src, err := tokenSource(context.Background(), Config{ClientID: "id", ClientSecret: "secret", TokenFile: path})
	require.NoError(t, err)
	assert.IsType(t, &savingTokenSource{}, src)

	_, err = tokenSource(context.Background(), Config{ClientID: "id", ClientSecret: "secret", TokenFile: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}
