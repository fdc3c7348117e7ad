package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/vesyncd/pkg/client"
)

// settableProperties lists the device state properties accepted by set
var settableProperties = []string{"on", "brightness", "color_temp", "mode", "level", "target_humidity"}

// NewDeviceCommand creates the device command
func NewDeviceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage VeSync devices",
	}

	cmd.AddCommand(
		newDeviceListCommand(),
		newDeviceGetCommand(),
		newDeviceSetCommand(),
		newDeviceOnCommand(),
		newDeviceOffCommand(),
	)

	return cmd
}

// newDeviceListCommand creates the device list command
func newDeviceListCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managed devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value(ClientContextKey).(client.Interface)
			devices, err := c.GetDevices()
			if err != nil {
				return fmt.Errorf("failed to get devices: %w", err)
			}

			if len(devices) == 0 {
				if output != "table" {
					return nil
				}
				pterm.Info.Println("No devices found; try 'vesyncctl sync'")
				return nil
			}

			switch output {
			case "parseable":
				for _, device := range devices {
					fmt.Println(DeviceParseable(device))
				}
			case "yaml":
				return RenderYAML(devices)
			default:
				for _, device := range devices {
					pterm.DefaultTable.WithData(DeviceTableData(device)).Render()
					pterm.Println() // Add a blank line between devices
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, parseable, yaml)")
	return cmd
}

// selectDevice resolves a device cid from args or an interactive dropdown
func selectDevice(c client.Interface, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	devices, err := c.GetDevices()
	if err != nil {
		return "", fmt.Errorf("failed to get devices: %w", err)
	}
	if len(devices) == 0 {
		return "", fmt.Errorf("no devices found; try 'vesyncctl sync'")
	}

	options := make([]string, len(devices))
	for i, device := range devices {
		options[i] = fmt.Sprintf("%v (%v)", device["cid"], device["name"])
	}

	selected, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		Show("Select a device")
	if err != nil {
		return "", fmt.Errorf("failed to select device: %w", err)
	}

	// Extract cid from selected option
	return strings.Split(selected, " (")[0], nil
}

// newDeviceGetCommand creates the device get command
func newDeviceGetCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [cid] [property]",
		Short: "Get information about a device",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value(ClientContextKey).(client.Interface)

			cid, err := selectDevice(c, args)
			if err != nil {
				return err
			}

			device, err := c.GetDevice(cid)
			if err != nil {
				return fmt.Errorf("failed to get device: %w", err)
			}

			// If a specific property was requested, only show that
			if len(args) > 1 {
				property := strings.ToLower(args[1])
				value, ok := device[property]
				if !ok {
					return fmt.Errorf("invalid property: %s", property)
				}
				if output == "parseable" {
					fmt.Printf("%s=%v\n", property, value)
				} else {
					fmt.Println(value)
				}
				return nil
			}

			switch output {
			case "parseable":
				fmt.Println(DeviceParseable(device))
			case "yaml":
				return RenderYAML(device)
			default:
				pterm.DefaultTable.WithData(DeviceTableData(device)).Render()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, parseable, yaml)")
	return cmd
}

// newDeviceSetCommand creates the device set command
func newDeviceSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [cid] [property] [value]",
		Short: "Set a device state property",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value(ClientContextKey).(client.Interface)

			cid, err := selectDevice(c, args)
			if err != nil {
				return err
			}

			// Get property
			var property string
			if len(args) > 1 {
				property = strings.ToLower(args[1])
				if !isSettableProperty(property) {
					return fmt.Errorf("invalid property: %s. Must be one of: %s",
						property, strings.Join(settableProperties, ", "))
				}
			} else {
				property, err = pterm.DefaultInteractiveSelect.
					WithOptions(settableProperties).
					Show("Select property to set")
				if err != nil {
					return fmt.Errorf("failed to select property: %w", err)
				}
			}

			value, err := resolvePropertyValue(property, args)
			if err != nil {
				return err
			}

			if err := c.SetDevice(cid, map[string]any{property: value}); err != nil {
				return fmt.Errorf("failed to set device state: %w", err)
			}

			pterm.Success.Println("Device state updated successfully")
			return nil
		},
	}
	return cmd
}

func isSettableProperty(property string) bool {
	for _, p := range settableProperties {
		if property == p {
			return true
		}
	}
	return false
}

// resolvePropertyValue converts the positional value argument, prompting
// interactively when it is missing.
func resolvePropertyValue(property string, args []string) (any, error) {
	switch property {
	case "on":
		if len(args) > 2 {
			return args[2] == "true" || args[2] == "on", nil
		}
		selected, err := pterm.DefaultInteractiveSelect.
			WithOptions([]string{"On", "Off"}).
			Show("Select power state")
		if err != nil {
			return nil, fmt.Errorf("failed to get power state: %w", err)
		}
		return selected == "On", nil

	case "mode":
		if len(args) > 2 {
			return args[2], nil
		}
		result, err := pterm.DefaultInteractiveTextInput.
			WithMultiLine(false).
			Show("Enter mode")
		if err != nil {
			return nil, fmt.Errorf("failed to get mode: %w", err)
		}
		return result, nil

	default:
		// Remaining properties are numeric
		var raw string
		if len(args) > 2 {
			raw = args[2]
		} else {
			result, err := pterm.DefaultInteractiveTextInput.
				WithMultiLine(false).
				Show(fmt.Sprintf("Enter %s", property))
			if err != nil {
				return nil, fmt.Errorf("failed to get %s value: %w", property, err)
			}
			raw = result
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", property, err)
		}
		return value, nil
	}
}

// newDeviceOnCommand creates the device on command
func newDeviceOnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "on [cid]",
		Short: "Turn a device on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPower(cmd, args, true)
		},
	}
}

// newDeviceOffCommand creates the device off command
func newDeviceOffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "off [cid]",
		Short: "Turn a device off",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPower(cmd, args, false)
		},
	}
}

func setPower(cmd *cobra.Command, args []string, on bool) error {
	c := cmd.Context().Value(ClientContextKey).(client.Interface)

	cid, err := selectDevice(c, args)
	if err != nil {
		return err
	}

	if err := c.SetDevice(cid, map[string]any{"on": on}); err != nil {
		return fmt.Errorf("failed to set device state: %w", err)
	}

	pterm.Success.Printfln("Device %s turned %s", cid, powerLabel(on))
	return nil
}

func powerLabel(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
