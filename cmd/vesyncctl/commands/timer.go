package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/vesyncd/pkg/client"
)

// NewTimerCommand creates the timer command
func NewTimerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Manage device countdown timers",
	}

	cmd.AddCommand(
		newTimerGetCommand(),
		newTimerSetCommand(),
		newTimerClearCommand(),
	)

	return cmd
}

// newTimerGetCommand creates the timer get command
func newTimerGetCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [cid]",
		Short: "Show a device's countdown timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value(ClientContextKey).(client.Interface)

			cid, err := selectDevice(c, args)
			if err != nil {
				return err
			}

			timer, err := c.GetTimer(cid)
			if err != nil {
				return fmt.Errorf("failed to get timer: %w", err)
			}

			if timer == nil {
				if output == "table" {
					pterm.Info.Println("No timer set")
				}
				return nil
			}

			switch output {
			case "parseable":
				fmt.Println(TimerParseable(timer))
			case "yaml":
				return RenderYAML(timer)
			default:
				pterm.DefaultTable.WithHasHeader().WithData(TimerTableData(timer)).Render()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, parseable, yaml)")
	return cmd
}

// newTimerSetCommand creates the timer set command
func newTimerSetCommand() *cobra.Command {
	var action string
	cmd := &cobra.Command{
		Use:   "set [cid] [duration-seconds]",
		Short: "Arm a countdown timer on a device",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value(ClientContextKey).(client.Interface)

			cid, err := selectDevice(c, args)
			if err != nil {
				return err
			}

			var raw string
			if len(args) > 1 {
				raw = args[1]
			} else {
				result, err := pterm.DefaultInteractiveTextInput.
					WithMultiLine(false).
					Show("Enter duration in seconds")
				if err != nil {
					return fmt.Errorf("failed to get duration: %w", err)
				}
				raw = result
			}
			duration, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || duration <= 0 {
				return fmt.Errorf("invalid duration: %s (must be a positive number of seconds)", raw)
			}

			if action != "on" && action != "off" {
				return fmt.Errorf("invalid action: %s (must be on or off)", action)
			}

			timer, err := c.SetTimer(cid, duration, action)
			if err != nil {
				return fmt.Errorf("failed to set timer: %w", err)
			}

			pterm.Success.Printfln("Timer set: %s", TimerSummary(timer))
			return nil
		},
	}
	cmd.Flags().StringVarP(&action, "action", "a", "off", "Action when the timer fires (on, off)")
	return cmd
}

// newTimerClearCommand creates the timer clear command
func newTimerClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [cid]",
		Short: "Remove a device's countdown timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value(ClientContextKey).(client.Interface)

			cid, err := selectDevice(c, args)
			if err != nil {
				return err
			}

			if err := c.ClearTimer(cid); err != nil {
				return fmt.Errorf("failed to clear timer: %w", err)
			}

			pterm.Success.Println("Timer cleared")
			return nil
		},
	}
}
