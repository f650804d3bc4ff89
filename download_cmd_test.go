package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penikalapati-pavan/DownloadOneDriveFolder/internal/config"
)

// resetFlags restores the package-level flag variables after a test that
// parses command lines against them.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		flagConfigPath = ""
		flagClientID = ""
		flagClientSecret = ""
		flagTenantID = ""
		flagFolderName = ""
		flagWebURL = ""
		flagDownloadPath = ""
		flagRegion = ""
		flagTransfers = 1
		flagKeepGoing = false
		flagVerbose = false
		flagQuiet = false
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestResolveSettings_FlagsBeatEnvBeatFile(t *testing.T) {
	resetFlags(t)

	cfgPath := writeConfigFile(t, `
client_id = "file-client"
client_secret = "file-secret"
tenant_id = "file-tenant"
region = "NAM"
transfers = 4
`)

	t.Setenv(config.EnvClientID, "env-client")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", cfgPath,
		"--client_secret", "flag-secret",
		"--transfers", "2",
		"--download_path", "/tmp/dest",
	}))

	s, err := resolveSettings(cmd)
	require.NoError(t, err)

	assert.Equal(t, "env-client", s.ClientID, "env beats file")
	assert.Equal(t, "flag-secret", s.ClientSecret, "flag beats file")
	assert.Equal(t, "file-tenant", s.TenantID, "file value survives when nothing overrides")
	assert.Equal(t, "NAM", s.Region)
	assert.Equal(t, 2, s.Transfers, "flag beats file")
	assert.Equal(t, "/tmp/dest", s.DownloadPath)
}

func TestResolveSettings_UnsetTransfersKeepsFileValue(t *testing.T) {
	resetFlags(t)

	cfgPath := writeConfigFile(t, `
client_id = "c"
client_secret = "s"
tenant_id = "t"
transfers = 8
`)

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath}))

	s, err := resolveSettings(cmd)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Transfers)
}

func TestResolveSettings_DefaultsDownloadPathToCwd(t *testing.T) {
	resetFlags(t)

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--client_id", "c",
		"--client_secret", "s",
		"--tenant_id", "t",
	}))

	s, err := resolveSettings(cmd)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, s.DownloadPath)
	assert.Equal(t, config.DefaultRegion, s.Region)
}

func TestResolveSettings_MissingCredentials(t *testing.T) {
	resetFlags(t)

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--client_id", "c"}))

	_, err := resolveSettings(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_secret")
}
