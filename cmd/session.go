package cmd

import (
	"time"

	"github.com/spf13/viper"

	"gerritkit/internal/client"
	"gerritkit/internal/config"
	"gerritkit/internal/gitutil"
	"gerritkit/internal/security"
	"gerritkit/pkg/errors"
	"gerritkit/pkg/models"
)

// loadSettings merges the config file with viper's env/flag overrides
func loadSettings() (*models.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if flagServer != "" {
		cfg.Gerrit.URL = flagServer
	} else if v := viper.GetString("gerrit.url"); v != "" {
		cfg.Gerrit.URL = v
	}
	if v := viper.GetString("gerrit.username"); v != "" {
		cfg.Gerrit.Username = v
	}
	if v := viper.GetInt("gerrit.timeout_seconds"); v != 0 {
		cfg.Gerrit.TimeoutSeconds = v
	}
	if viper.IsSet("gerrit.insecure") {
		cfg.Gerrit.Insecure = viper.GetBool("gerrit.insecure")
	}
	if v := viper.GetString("defaults.project"); v != "" && cfg.Defaults.Project == "" {
		cfg.Defaults.Project = v
	}

	return cfg, nil
}

// newGerritClient builds the HTTP session from config, pulling the
// password from the credential store when a username is configured
func newGerritClient() (*client.Client, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}

	opts := client.Options{
		Insecure: cfg.Gerrit.Insecure,
		Timeout:  time.Duration(cfg.Gerrit.TimeoutSeconds) * time.Second,
	}

	if cfg.Gerrit.Username != "" {
		cm, err := security.NewCredentialManager(config.GetConfigPath())
		if err != nil {
			return nil, err
		}
		password, err := cm.GetPassword(cfg.Gerrit.Username)
		if err != nil {
			return nil, err
		}
		opts.Username = cfg.Gerrit.Username
		opts.Password = password
	}

	return client.New(cfg.Gerrit.URL, opts)
}

// resolveProject picks the project from the flag, the config default,
// or the remote of the current checkout, in that order
func resolveProject() (string, error) {
	if flagProject != "" {
		return flagProject, nil
	}

	cfg, err := loadSettings()
	if err == nil && cfg.Defaults.Project != "" {
		return cfg.Defaults.Project, nil
	}

	project, err := gitutil.DetectProject(".")
	if err != nil {
		return "", errors.New(errors.ErrCodeProjectNotFound, "no project given and none could be detected").
			WithSuggestions(
				"Pass --project explicitly",
				"Run the command inside a checkout with a gerrit or origin remote",
				"Set defaults.project via 'gerritkit setup'",
			)
	}
	return project, nil
}
