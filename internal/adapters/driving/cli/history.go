package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

var (
	historyPlatform string
	historyLimit    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent login attempts",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyPlatform, "platform", "p", "", "only show attempts for this platform")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of attempts")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	if s.History == nil {
		return errors.New("history is not available")
	}

	var platform domain.Platform
	if historyPlatform != "" {
		if platform, err = s.Providers.ParsePlatform(historyPlatform); err != nil {
			return err
		}
	}

	attempts, err := s.History.List(commandContext(cmd), platform, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list attempts: %w", err)
	}
	if len(attempts) == 0 {
		cmd.Println("No login attempts recorded.")
		return nil
	}

	for _, a := range attempts {
		took := a.FinishedAt.Sub(a.StartedAt).Round(time.Millisecond)
		cmd.Printf("%s  %-8s %-10s %8s", a.FinishedAt.Local().Format(time.DateTime), a.Platform.DisplayName(),
			a.Outcome, took)
		if a.Reason != "" {
			cmd.Printf("  %s", a.Reason)
		}
		cmd.Println()
	}
	return nil
}
