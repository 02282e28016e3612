package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

var (
	statusJSON  bool
	statusWatch bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show login state for every platform",
	Long: `Show the stored login for every platform and any authorization in progress.

With --watch the table is reprinted whenever the credential file changes,
including changes made by another tunebridge process.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "reprint when logins change")
	rootCmd.AddCommand(statusCmd)
}

// platformStatus is one row of the status output.
type platformStatus struct {
	Platform   domain.Platform `json:"platform"`
	LoggedIn   bool            `json:"logged_in"`
	UserName   string          `json:"user_name,omitempty"`
	ExpiryTime *time.Time      `json:"expiry_time,omitempty"`
	Expired    bool            `json:"expired"`
	Attempt    string          `json:"attempt"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	if err := printStatus(cmd, s); err != nil {
		return err
	}
	if !statusWatch {
		return nil
	}
	if s.WatchCredentials == nil {
		return errors.New("watching is not supported")
	}

	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer cancel()

	changed, err := s.WatchCredentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.CredentialsPath, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changed:
			if !ok {
				return nil
			}
			cmd.Println()
			if err := printStatus(cmd, s); err != nil {
				return err
			}
		}
	}
}

func collectStatus(s *Services, now time.Time) ([]platformStatus, error) {
	creds, err := s.Credentials.List()
	if err != nil {
		return nil, err
	}
	attempts := s.Authorization.Statuses()

	rows := make([]platformStatus, 0, len(attempts))
	for _, platform := range s.Providers.Platforms() {
		row := platformStatus{Platform: platform, Attempt: attempts[platform].String()}
		if record, ok := creds[platform]; ok {
			expiry := record.ExpiryTime
			row.LoggedIn = true
			row.UserName = record.UserName
			row.ExpiryTime = &expiry
			row.Expired = !record.IsValidAt(now)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func printStatus(cmd *cobra.Command, s *Services) error {
	now := time.Now()
	rows, err := collectStatus(s, now)
	if err != nil {
		return fmt.Errorf("failed to read logins: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for _, row := range rows {
		name := row.Platform.DisplayName()
		if !row.LoggedIn {
			cmd.Printf("%-8s not logged in\n", name)
		} else {
			cmd.Printf("%-8s %s (token %s)\n", name, row.UserName, describeExpiry(*row.ExpiryTime, now))
		}
		if row.Attempt != domain.StatusNotStarted.String() {
			cmd.Printf("         login: %s\n", row.Attempt)
		}
	}
	return nil
}
