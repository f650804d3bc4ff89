package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
client_id = "app-id"
client_secret = "s3cret"
tenant_id = "tenant"
region = "EUR"
download_path = "/data/mirrors"
transfers = 4
keep_going = true
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "app-id", s.ClientID)
	assert.Equal(t, "s3cret", s.ClientSecret)
	assert.Equal(t, "tenant", s.TenantID)
	assert.Equal(t, "EUR", s.Region)
	assert.Equal(t, "/data/mirrors", s.DownloadPath)
	assert.Equal(t, 4, s.Transfers)
	assert.True(t, s.KeepGoing)
}

func TestLoad_UnknownKeyIsFatal(t *testing.T) {
	path := writeConfig(t, `
client_id = "app-id"
client_secrt = "typo"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_secrt")
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	s, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultRegion, s.Region)
	assert.Equal(t, 1, s.Transfers)
	assert.Empty(t, s.ClientID)
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv(EnvClientID, "env-client")
	t.Setenv(EnvTenantID, "env-tenant")
	t.Setenv(EnvRegion, "")

	s := Default()
	s.ClientID = "file-client"
	s.Region = "NAM"

	ApplyEnv(s)

	assert.Equal(t, "env-client", s.ClientID, "env overrides file")
	assert.Equal(t, "env-tenant", s.TenantID)
	assert.Equal(t, "NAM", s.Region, "empty env var is ignored")
}

func TestValidate(t *testing.T) {
	valid := &Settings{
		ClientID:     "c",
		ClientSecret: "s",
		TenantID:     "t",
		Transfers:    1,
	}

	require.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   string
	}{
		{"missing client id", func(s *Settings) { s.ClientID = "" }, "client_id"},
		{"missing secret", func(s *Settings) { s.ClientSecret = "" }, "client_secret"},
		{"missing tenant", func(s *Settings) { s.TenantID = "" }, "tenant_id"},
		{"zero transfers", func(s *Settings) { s.Transfers = 0 }, "transfers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := *valid
			tt.mutate(&s)

			err := Validate(&s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
