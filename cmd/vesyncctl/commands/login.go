package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/vesyncd/internal/config"
	"github.com/jmylchreest/vesyncd/pkg/vesync"
)

// NewLoginCommand creates the login command. It authenticates against the
// cloud directly and stores the resulting credentials where vesyncd will
// pick them up on its next start.
func NewLoginCommand() *cobra.Command {
	var username string
	var credentialsFile string
	var baseURL string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the VeSync cloud and store credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromCmd(cmd)

			if username == "" {
				result, err := pterm.DefaultInteractiveTextInput.
					WithMultiLine(false).
					Show("Email address")
				if err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}
				username = result
			}

			password, err := pterm.DefaultInteractiveTextInput.
				WithMultiLine(false).
				WithMask("*").
				Show("Password")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			opts := []vesync.ClientOption{}
			if baseURL != "" {
				opts = append(opts, vesync.WithBaseURL(baseURL))
			}
			apiClient := vesync.NewClient(logger, opts...)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			creds, err := apiClient.Login(ctx, username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if credentialsFile == "" {
				credentialsFile = config.GetCredentialsPath()
			}
			if err := creds.Save(credentialsFile); err != nil {
				return fmt.Errorf("failed to store credentials: %w", err)
			}

			pterm.Success.Printfln("Logged in as %s; credentials stored at %s", username, credentialsFile)
			pterm.Info.Println("Restart vesyncd to pick up the new credentials")
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "VeSync account email address")
	cmd.Flags().StringVar(&credentialsFile, "credentials-file", "", "Where to store credentials (defaults to the standard location)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Override the cloud API base URL")
	return cmd
}
