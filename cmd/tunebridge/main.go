// Command tunebridge logs in to Spotify and osu! through a loopback OAuth redirect.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	configfile "github.com/custodia-labs/tunebridge/internal/adapters/driven/config/file"
	drivenoauth "github.com/custodia-labs/tunebridge/internal/adapters/driven/oauth"
	storagefile "github.com/custodia-labs/tunebridge/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/tunebridge/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tunebridge/internal/adapters/driving/cli"
	loopback "github.com/custodia-labs/tunebridge/internal/adapters/driving/oauth"
	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/services"
	"github.com/custodia-labs/tunebridge/internal/logger"
	"github.com/custodia-labs/tunebridge/internal/providers/osu"
	"github.com/custodia-labs/tunebridge/internal/providers/spotify"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	environment, err := configfile.LoadEnvironment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	logger.SetVerbose(environment.Verbose)

	configStore, err := configfile.NewConfigStore(environment.DataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	if settings.Verbose {
		logger.SetVerbose(true)
	}

	history, err := sqlite.NewStore(environment.DataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	defer history.Close()

	registry := services.NewProviderRegistry(spotify.New(), osu.New()).WithPorts(settings.Auth)
	loadClients := func() (domain.ClientConfigs, error) {
		return configfile.LoadClientConfigs(environment.ConfigPath, registry.Providers())
	}
	clients, clientErr := loadClients()
	if clientErr != nil {
		logger.Debug("client configuration: %v", clientErr)
	}

	credentialStore := storagefile.NewCredentialStore(environment.DataDir)
	credentials := services.NewCredentialsService(credentialStore)
	exchanger := drivenoauth.NewExchanger(http.DefaultClient)

	authorization := services.NewAuthorizationService(services.AuthorizationDeps{
		Providers:   registry,
		Clients:     clients,
		Credentials: credentials,
		Exchanger:   exchanger,
		Receivers:   loopback.NewCallbackReceiver,
		AuthURL:     drivenoauth.BuildAuthURL,
		OpenBrowser: loopback.OpenBrowser,
		Attempts:    history.AttemptStore(),
		Settings:    settings.Auth,
	})
	tokens := services.NewTokenGate(registry, clients, credentials, exchanger, settings.Auth.ExchangeTimeout)

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Providers:        registry,
		Authorization:    authorization,
		Tokens:           tokens,
		Credentials:      credentials,
		Settings:         settingsService,
		History:          history.AttemptStore(),
		LoadClients:      loadClients,
		ClientConfigErr:  clientErr,
		ClientConfigPath: environment.ConfigPath,
		CredentialsPath:  credentialStore.Path(),
		WatchCredentials: func(ctx context.Context) (<-chan struct{}, error) {
			return storagefile.WatchCredentials(ctx, credentialStore)
		},
	})

	return cli.Execute(context.Background())
}
