package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure timeouts, callback ports and logging.

Settings are stored in settings.toml in the data directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting.

Available keys:
  callback-timeout  How long to wait for the browser redirect (e.g. 3m)
  exchange-timeout  How long one token request may take (e.g. 30s)
  ports.<platform>  Comma-separated callback ports (e.g. ports.osu 8080,8081)
  verbose           Print debug output by default (true or false)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}

	settings, err := s.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Authorization]")
	cmd.Printf("  Callback timeout: %s\n", settings.Auth.CallbackTimeout)
	cmd.Printf("  Exchange timeout: %s\n", settings.Auth.ExchangeTimeout)
	cmd.Println()

	cmd.Println("[Callback Ports]")
	platforms := make([]domain.Platform, 0, len(settings.Auth.Ports))
	for p := range settings.Auth.Ports {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	for _, p := range platforms {
		cmd.Printf("  %s: %s\n", p.DisplayName(), formatPorts(settings.Auth.Ports[p]))
	}
	cmd.Println()

	cmd.Println("[Logging]")
	if settings.Verbose {
		cmd.Println("  Verbose: yes")
	} else {
		cmd.Println("  Verbose: no")
	}
	cmd.Println()

	cmd.Printf("Stored in %s\n", s.Settings.ConfigPath())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	key, value := args[0], args[1]

	switch {
	case key == "callback-timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		if err := s.Settings.SetCallbackTimeout(d); err != nil {
			return fmt.Errorf("failed to set callback timeout: %w", err)
		}
	case key == "exchange-timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		if err := s.Settings.SetExchangeTimeout(d); err != nil {
			return fmt.Errorf("failed to set exchange timeout: %w", err)
		}
	case strings.HasPrefix(key, "ports."):
		platform, err := s.Providers.ParsePlatform(strings.TrimPrefix(key, "ports."))
		if err != nil {
			return err
		}
		ports, err := parsePorts(value)
		if err != nil {
			return err
		}
		if err := s.Settings.SetPorts(platform, ports); err != nil {
			return fmt.Errorf("failed to set ports: %w", err)
		}
	case key == "verbose":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		if err := s.Settings.SetVerbose(v); err != nil {
			return fmt.Errorf("failed to set verbose: %w", err)
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	defaults := s.Settings.GetDefaults()
	if err := s.Settings.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

// parsePorts parses a comma-separated port list such as "8080, 8081".
func parsePorts(value string) ([]int, error) {
	var ports []int
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		port, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", field)
		}
		ports = append(ports, port)
	}
	if len(ports) == 0 {
		return nil, errors.New("no ports given")
	}
	return ports, nil
}

func formatPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}
