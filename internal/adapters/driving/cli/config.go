package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the client configuration",
	Long: `Inspect config.json, which holds the OAuth application credentials:

  {
    "spotify": {"client_id": "...", "client_secret": "..."},
    "osu": {"client_id": "...", "client_secret": "..."}
  }`,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the client configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigCheck,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file paths",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	if s.LoadClients == nil {
		return errors.New("client configuration loader not configured")
	}

	clients, err := s.LoadClients()
	var cfgErr *domain.ConfigError
	switch {
	case errors.As(err, &cfgErr) && len(cfgErr.Problems) > 0:
		cmd.Printf("%s has problems:\n", s.ClientConfigPath)
		for _, p := range cfgErr.Problems {
			cmd.Printf("  %s\n", p)
		}
		return fmt.Errorf("%d configuration problem(s)", len(cfgErr.Problems))
	case err != nil:
		return err
	}

	for _, platform := range s.Providers.Platforms() {
		if c, ok := clients[platform]; ok {
			cmd.Printf("%-8s ok (client %s)\n", platform.DisplayName(), c.ClientID)
		}
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	cmd.Printf("Client config: %s\n", s.ClientConfigPath)
	cmd.Printf("Logins:        %s\n", s.CredentialsPath)
	cmd.Printf("Settings:      %s\n", s.Settings.ConfigPath())
	return nil
}
