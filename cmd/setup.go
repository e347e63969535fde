package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"gerritkit/internal/config"
	"gerritkit/internal/security"
	"gerritkit/internal/ui"
	"gerritkit/pkg/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the Gerrit server and credentials",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	if config.Exists() {
		if !ui.Confirm("A configuration already exists. Overwrite it?") {
			ui.ShowInfo("Keeping the existing configuration")
			return nil
		}
	}

	cfg := &models.Config{}
	var password string

	questions := []*survey.Question{
		{
			Name: "url",
			Prompt: &survey.Input{
				Message: "Gerrit server URL:",
				Help:    "For example https://gerrit.example.com",
			},
			Validate: survey.Required,
		},
		{
			Name: "username",
			Prompt: &survey.Input{
				Message: "Username (empty for anonymous access):",
			},
		},
	}
	if err := survey.Ask(questions, &cfg.Gerrit); err != nil {
		return err
	}

	if cfg.Gerrit.Username != "" {
		prompt := &survey.Password{
			Message: "HTTP password:",
			Help:    "Generated under Settings > HTTP Credentials in the Gerrit web UI",
		}
		if err := survey.AskOne(prompt, &password, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	projectPrompt := &survey.Input{
		Message: "Default project (empty to detect from the local checkout):",
	}
	if err := survey.AskOne(projectPrompt, &cfg.Defaults.Project); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	if cfg.Gerrit.Username != "" {
		cm, err := security.NewCredentialManager(config.GetConfigPath())
		if err != nil {
			return err
		}
		if err := cm.StorePassword(cfg.Gerrit.Username, password); err != nil {
			return err
		}
	}

	ui.ShowSuccess(fmt.Sprintf("Configuration written to %s", config.GetConfigFile()))
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
