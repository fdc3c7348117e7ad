package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// orderedProperties defines the order of properties in parseable output
var orderedProperties = []string{
	"cid",
	"name",
	"model",
	"product_type",
	"status",
	"connection",
	"firmware",
}

// DeviceTableData returns the table data for a device, with bold CID and name
func DeviceTableData(device map[string]any) pterm.TableData {
	table := pterm.TableData{
		[]string{pterm.Bold.Sprint("CID"), pterm.Bold.Sprint(fmt.Sprintf("%v", device["cid"]))},
		[]string{"Name", fmt.Sprintf("%v", device["name"])},
		[]string{"Model", fmt.Sprintf("%v", device["model"])},
		[]string{"Type", fmt.Sprintf("%v", device["product_type"])},
		[]string{"Status", fmt.Sprintf("%v", device["status"])},
		[]string{"Connection", fmt.Sprintf("%v", device["connection"])},
		[]string{"Firmware", fmt.Sprintf("%v", device["firmware"])},
	}
	if timer, ok := device["timer"].(map[string]any); ok {
		table = append(table, []string{"Timer", TimerSummary(timer)})
	}
	return table
}

// DeviceParseable returns the parseable key=value string for a device
func DeviceParseable(device map[string]any) string {
	var parts []string
	for _, prop := range orderedProperties {
		if val, ok := device[prop]; ok {
			switch v := val.(type) {
			case string:
				parts = append(parts, fmt.Sprintf("%s=%q", prop, v))
			default:
				parts = append(parts, fmt.Sprintf("%s=%v", prop, v))
			}
		}
	}

	// Type-specific state follows the common properties, sorted for stability
	var extra []string
	for key := range device {
		if key == "timer" || key == "uuid" || key == "last_seen" || isOrderedProperty(key) {
			continue
		}
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		parts = append(parts, fmt.Sprintf("%s=%v", key, device[key]))
	}

	return strings.Join(parts, " ")
}

func isOrderedProperty(key string) bool {
	for _, prop := range orderedProperties {
		if key == prop {
			return true
		}
	}
	return false
}

// TimerSummary returns a one-line description of a timer
func TimerSummary(timer map[string]any) string {
	return fmt.Sprintf("%v (%vs remaining, %v in %vs)",
		timer["status"], timer["remaining"], timer["action"], timer["duration"])
}

// TimerTableData returns the table data for a timer
func TimerTableData(timer map[string]any) pterm.TableData {
	return pterm.TableData{
		[]string{"Property", "Value"},
		[]string{"ID", fmt.Sprintf("%v", timer["id"])},
		[]string{"Duration", fmt.Sprintf("%vs", timer["duration"])},
		[]string{"Remaining", fmt.Sprintf("%vs", timer["remaining"])},
		[]string{"Action", fmt.Sprintf("%v", timer["action"])},
		[]string{"Status", fmt.Sprintf("%v", timer["status"])},
	}
}

// TimerParseable returns the parseable key=value string for a timer
func TimerParseable(timer map[string]any) string {
	return fmt.Sprintf("id=%v duration=%v remaining=%v action=%q status=%q",
		timer["id"], timer["duration"], timer["remaining"], timer["action"], timer["status"])
}

// RenderYAML prints any value as YAML to stdout
func RenderYAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to render yaml: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
