package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gerritkit/internal/config"
	"gerritkit/pkg/models"
)

func withCleanState(t *testing.T) {
	t.Helper()
	t.Setenv("GERRITKIT_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	viper.Reset()
	flagServer = ""
	flagProject = ""
	t.Cleanup(func() {
		viper.Reset()
		flagServer = ""
		flagProject = ""
	})
}

func TestLoadSettingsServerFlagWins(t *testing.T) {
	withCleanState(t)

	require.NoError(t, config.Save(&models.Config{
		Gerrit: models.GerritConfig{URL: "https://from-file.example.com"},
	}))

	cfg, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "https://from-file.example.com", cfg.Gerrit.URL)

	flagServer = "https://from-flag.example.com"
	cfg, err = loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "https://from-flag.example.com", cfg.Gerrit.URL)
}

func TestLoadSettingsViperOverrides(t *testing.T) {
	withCleanState(t)

	require.NoError(t, config.Save(&models.Config{
		Gerrit: models.GerritConfig{URL: "https://file.example.com", Username: "fileuser"},
	}))

	viper.Set("gerrit.username", "envuser")
	viper.Set("gerrit.timeout_seconds", 5)

	cfg, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.Gerrit.URL)
	assert.Equal(t, "envuser", cfg.Gerrit.Username)
	assert.Equal(t, 5, cfg.Gerrit.TimeoutSeconds)
}

func TestResolveProjectFlagFirst(t *testing.T) {
	withCleanState(t)

	flagProject = "from-flag"
	project, err := resolveProject()
	require.NoError(t, err)
	assert.Equal(t, "from-flag", project)
}

func TestResolveProjectFromConfigDefault(t *testing.T) {
	withCleanState(t)

	require.NoError(t, config.Save(&models.Config{
		Defaults: models.Defaults{Project: "tools"},
	}))

	project, err := resolveProject()
	require.NoError(t, err)
	assert.Equal(t, "tools", project)
}
