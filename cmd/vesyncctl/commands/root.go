package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/vesyncd/pkg/client"
)

// NewRootCommand creates the root command
func NewRootCommand(logger *slog.Logger, version, commit, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vesyncctl",
		Short: "Control VeSync smart home devices via vesyncd",
	}

	// Add global flags
	cmd.PersistentFlags().String("socket", "", "Path to vesyncd socket")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "", "Log format (text, json)")

	// Add commands
	cmd.AddCommand(newVersionCommand(version, commit, buildDate))
	cmd.AddCommand(NewLoginCommand())
	cmd.AddCommand(NewDeviceCommand())
	cmd.AddCommand(NewTimerCommand())
	cmd.AddCommand(newSyncCommand())

	if logger != nil {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		cmd.SetContext(context.WithValue(parent, LoggerContextKey, logger))
	}

	return cmd
}

// newVersionCommand creates the version command
func newVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Client:\n")
			fmt.Printf("  Version:    %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)

			// Try to query the daemon for its version
			if c, ok := cmd.Context().Value(ClientContextKey).(client.Interface); ok {
				daemonVersion, err := c.Version()
				if err == nil {
					fmt.Printf("\nDaemon:\n")
					fmt.Printf("  Version:    %s\n", daemonVersion)
				} else {
					fmt.Printf("\nDaemon: not reachable\n")
				}
			}
		},
	}
}

// newSyncCommand creates the sync command
func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh the device registry from the cloud now",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value(ClientContextKey).(client.Interface)
			if err := c.Sync(); err != nil {
				return fmt.Errorf("failed to sync devices: %w", err)
			}
			return nil
		},
	}
}
