package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsXToken(t *testing.T) {
	var gotToken, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Token")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	var result HealthResult
	require.NoError(t, NewClient(srv.URL+"/", "tok-1").Get("/api/health", &result))

	assert.Equal(t, "tok-1", gotToken)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "ok", result.Status)
}

func TestClientFormatsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"token required"}}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").Get("/api/game/user-data", nil)
	assert.EqualError(t, err, "token required (UNAUTHORIZED)")
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").Get("/api/health", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestConfigTokenRoundTrip(t *testing.T) {
	c := &Config{TokenFile: filepath.Join(t.TempDir(), "nested", "token")}

	require.NoError(t, c.SaveToken("abc123"))

	loaded := &Config{TokenFile: c.TokenFile}
	require.NoError(t, loaded.LoadToken())
	assert.Equal(t, "abc123", loaded.Token)

	require.NoError(t, loaded.ClearToken())
	_, err := os.Stat(c.TokenFile)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, loaded.ClearToken())
}

func TestLoadTokenPrefersExplicitToken(t *testing.T) {
	file := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(file, []byte("from-file\n"), 0o600))

	c := &Config{Token: "from-flag", TokenFile: file}
	require.NoError(t, c.LoadToken())
	assert.Equal(t, "from-flag", c.Token)

	c = &Config{TokenFile: file}
	require.NoError(t, c.LoadToken())
	assert.Equal(t, "from-file", c.Token)
}
