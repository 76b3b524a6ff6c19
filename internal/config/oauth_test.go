package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOAuthClient = `{
  "installed": {
    "client_id": "roster-client.apps.googleusercontent.com",
    "project_id": "shift-roster",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "roster-secret",
    "redirect_uris": ["http://localhost"]
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOAuthClientFromPath_ValidConfig(t *testing.T) {
	cfg, err := LoadOAuthClientFromPath(writeFile(t, "oauthClient.json", validOAuthClient))
	require.NoError(t, err)

	assert.Equal(t, "roster-client.apps.googleusercontent.com", cfg.Installed.ClientID)
	assert.Equal(t, "shift-roster", cfg.Installed.ProjectID)
	assert.Equal(t, []string{"http://localhost"}, cfg.Installed.RedirectURIs)
}

func TestLoadOAuthClientFromPath_InvalidJSON(t *testing.T) {
	_, err := LoadOAuthClientFromPath(writeFile(t, "oauthClient.json", `{"installed": {`))
	assert.ErrorContains(t, err, "failed to parse oauth client file")
}

func TestLoadOAuthClientFromPath_MissingSecret(t *testing.T) {
	content := `{
  "installed": {
    "client_id": "roster-client",
    "project_id": "shift-roster",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "redirect_uris": ["http://localhost"]
  }
}`
	_, err := LoadOAuthClientFromPath(writeFile(t, "oauthClient.json", content))
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoadOAuthClientFromPath_BadRedirectURI(t *testing.T) {
	content := `{
  "installed": {
    "client_id": "roster-client",
    "project_id": "shift-roster",
    "auth_uri": "not-a-url",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "roster-secret",
    "redirect_uris": []
  }
}`
	_, err := LoadOAuthClientFromPath(writeFile(t, "oauthClient.json", content))
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoadOAuthClientFromPath_FileNotFound(t *testing.T) {
	_, err := LoadOAuthClientFromPath("/nonexistent/path/oauthClient.json")
	assert.ErrorContains(t, err, "failed to read oauth client file")
}

func TestLoadOAuthClientWithEnv_FindsEnvFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "oauthClient.staging.json"), []byte(validOAuthClient), 0644))
	t.Chdir(dir)

	cfg, err := LoadOAuthClientWithEnv("staging")
	require.NoError(t, err)
	assert.Equal(t, "shift-roster", cfg.Installed.ProjectID)
}
