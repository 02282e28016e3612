package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	drivenoauth "github.com/custodia-labs/tunebridge/internal/adapters/driven/oauth"
	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login [platform]",
	Short: "Log in to a platform through the browser",
	Long: `Open the provider's authorization page in the browser and wait for the
redirect on a local loopback port. The login record is saved once the code
has been exchanged and the profile fetched.

Examples:
  tunebridge login spotify
  tunebridge login osu`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout [platform]",
	Short: "Remove the stored login for a platform",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

var tokenApp bool

var tokenCmd = &cobra.Command{
	Use:   "token [platform]",
	Short: "Print a valid access token",
	Long: `Print the stored access token, refreshing it first when it has expired.

With --app an app-only token is requested through the client credentials grant
instead; it is not stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami [platform]",
	Short: "Fetch the logged-in user's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runWhoami,
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenApp, "app", false, "request an app-only token")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	platform, err := s.Providers.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	if err := requireClients(s); err != nil {
		return err
	}

	changes, stop := s.Authorization.Watch(16)
	defer stop()

	if err := s.Authorization.Start(platform); err != nil {
		if errors.Is(err, domain.ErrAuthInProgress) {
			return fmt.Errorf("a %s login is already in progress", platform.DisplayName())
		}
		return err
	}

	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer cancel()

	status, err := awaitLogin(ctx, cmd, s, platform, changes)
	if err != nil {
		s.Authorization.Cancel(platform)
		return fmt.Errorf("login cancelled: %w", err)
	}

	switch status.Kind {
	case domain.StatusCompleted:
		record, err := s.Credentials.Get(platform)
		if err != nil {
			return err
		}
		cmd.Printf("Logged in to %s as %s\n", platform.DisplayName(), record.UserName)
		return nil
	case domain.StatusFailed:
		return fmt.Errorf("login failed: %s", status.Reason)
	default:
		return fmt.Errorf("login ended without completing (%s)", status)
	}
}

type waitResult struct {
	status domain.AuthStatus
	err    error
}

// awaitLogin waits for the session to finish, printing progress from changes meanwhile.
func awaitLogin(
	ctx context.Context,
	cmd *cobra.Command,
	s *Services,
	platform domain.Platform,
	changes <-chan domain.StatusChange,
) (domain.AuthStatus, error) {
	result := make(chan waitResult, 1)
	go func() {
		status, err := s.Authorization.Wait(ctx, platform)
		result <- waitResult{status: status, err: err}
	}()

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if change.Platform == platform {
				printProgress(cmd, change.Status)
			}
		case r := <-result:
			return r.status, r.err
		}
	}
}

func printProgress(cmd *cobra.Command, status domain.AuthStatus) {
	switch status.Kind {
	case domain.StatusWaitingForBrowser:
		cmd.PrintErrln("Waiting for authorization in the browser...")
	case domain.StatusProcessing:
		cmd.PrintErrln("Exchanging authorization code...")
	case domain.StatusTokenObtained:
		cmd.PrintErrln("Fetching profile...")
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	platform, err := s.Providers.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	if err := s.Authorization.Logout(platform); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	cmd.Printf("Logged out of %s\n", platform.DisplayName())
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	platform, err := s.Providers.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	if err := requireClients(s); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if tokenApp {
		token, err := s.Tokens.AppToken(ctx, platform)
		if err != nil {
			return fmt.Errorf("failed to get app token: %w", err)
		}
		cmd.Println(token.AccessToken)
		return nil
	}

	record, err := s.Tokens.EnsureValid(ctx, platform)
	if err != nil {
		return err
	}
	cmd.Println(record.AccessToken)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	platform, err := s.Providers.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	if err := requireClients(s); err != nil {
		return err
	}
	provider, err := s.Providers.Provider(platform)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	client := drivenoauth.NewClient(ctx, s.Tokens, platform)
	profile, err := provider.FetchProfile(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	cmd.Printf("%s: %s\n", platform.DisplayName(), profile.UserName)
	if profile.AvatarURL != "" {
		cmd.Printf("  Avatar: %s\n", profile.AvatarURL)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// describeExpiry renders how long an access token remains valid.
func describeExpiry(expiry, now time.Time) string {
	if !now.Before(expiry) {
		return "expired " + expiry.Local().Format(time.DateTime)
	}
	return "expires in " + expiry.Sub(now).Round(time.Second).String()
}
