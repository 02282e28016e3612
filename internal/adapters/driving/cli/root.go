// Package cli implements the tunebridge commands on top of the driving ports.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driving"
	"github.com/custodia-labs/tunebridge/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services are the core ports the commands operate on.
// LoadClients re-reads the client configuration file; ClientConfigErr is the
// error from the load performed at startup, if any.
type Services struct {
	Providers        driving.ProviderRegistry
	Authorization    driving.AuthorizationService
	Tokens           driving.TokenGate
	Credentials      driving.CredentialsService
	Settings         driving.SettingsService
	History          driving.AttemptHistory
	LoadClients      func() (domain.ClientConfigs, error)
	ClientConfigErr  error
	ClientConfigPath string
	CredentialsPath  string
	WatchCredentials func(ctx context.Context) (<-chan struct{}, error)
}

var svc *Services

var rootCmd = &cobra.Command{
	Use:   "tunebridge",
	Short: "Log in to Spotify and osu! from the terminal",
	Long: `Tunebridge runs the OAuth2 authorization code flow for Spotify and osu!
through a local loopback redirect and keeps the resulting tokens fresh.

Application credentials are read from config.json; login records are stored
in login_info.json inside the data directory.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
}

// SetServices configures the ports used by every command.
func SetServices(s *Services) {
	svc = s
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func services() (*Services, error) {
	if svc == nil {
		return nil, errors.New("services not configured")
	}
	return svc, nil
}

// requireClients fails when the client configuration could not be loaded at startup.
func requireClients(s *Services) error {
	return s.ClientConfigErr
}
