package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"testing"

	"github.com/pterm/pterm"

	"github.com/jmylchreest/vesyncd/pkg/client"
)

// captureStdout captures stdout during the execution of f, disables pterm color, and strips ANSI codes from the output.
func captureStdout(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Save original pterm settings and default table writer
	oldPrintColor := pterm.PrintColor
	oldOutput := pterm.Output
	oldDefaultTableWriter := pterm.DefaultTable.Writer
	oldSuccessWriter := pterm.Success.Writer
	oldInfoWriter := pterm.Info.Writer

	pterm.PrintColor = false
	pterm.Output = true
	pterm.DefaultTable.Writer = w
	pterm.Success.Writer = w
	pterm.Info.Writer = w
	pterm.SetDefaultOutput(w)

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = oldStdout

	// Restore pterm
	pterm.PrintColor = oldPrintColor
	pterm.Output = oldOutput
	pterm.DefaultTable.Writer = oldDefaultTableWriter
	pterm.Success.Writer = oldSuccessWriter
	pterm.Info.Writer = oldInfoWriter
	pterm.SetDefaultOutput(oldStdout)

	out := <-outC

	// Strip ANSI escape codes
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(out, "")
}

// runCommand executes a command tree with a mock client wired into the context.
func runCommand(t *testing.T, c client.Interface, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(nil, "test", "none", "today")
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	ctx := context.WithValue(context.Background(), ClientContextKey, c)

	var runErr error
	out := captureStdout(func() {
		runErr = cmd.ExecuteContext(ctx)
	})
	return out, runErr
}

// mockClient implements client.Interface for CLI tests
// and returns static data for testing.
type mockClient struct {
	devices  []map[string]any
	timers   map[string]map[string]any
	setCalls []map[string]any
	cleared  []string
	synced   bool
}

var _ client.Interface = (*mockClient)(nil)

func newMockClient() *mockClient {
	return &mockClient{
		devices: []map[string]any{
			{
				"cid":          "cid-outlet",
				"name":         "Desk Plug",
				"model":        "wifi-switch-1.3",
				"product_type": "outlet",
				"status":       "on",
				"connection":   "online",
				"firmware":     "1.0.0",
				"voltage":      121.5,
			},
			{
				"cid":          "cid-bulb",
				"name":         "Bedroom Bulb",
				"model":        "ESL100",
				"product_type": "bulb",
				"status":       "off",
				"connection":   "online",
				"firmware":     "2.1.0",
				"brightness":   40,
			},
		},
		timers: map[string]map[string]any{},
	}
}

func (m *mockClient) Ping() error              { return nil }
func (m *mockClient) Version() (string, error) { return "test-daemon", nil }

func (m *mockClient) GetDevices() ([]map[string]any, error) {
	return m.devices, nil
}

func (m *mockClient) GetDevice(cid string) (map[string]any, error) {
	for _, d := range m.devices {
		if d["cid"] == cid {
			return d, nil
		}
	}
	return nil, fmt.Errorf("server error: device %s: resource not found", cid)
}

func (m *mockClient) SetDevice(cid string, props map[string]any) error {
	call := map[string]any{"cid": cid}
	for k, v := range props {
		call[k] = v
	}
	m.setCalls = append(m.setCalls, call)
	return nil
}

func (m *mockClient) GetTimer(cid string) (map[string]any, error) {
	return m.timers[cid], nil
}

func (m *mockClient) SetTimer(cid string, duration int64, action string) (map[string]any, error) {
	timer := map[string]any{
		"id":        float64(1),
		"duration":  float64(duration),
		"remaining": float64(duration),
		"action":    action,
		"status":    "active",
	}
	m.timers[cid] = timer
	return timer, nil
}

func (m *mockClient) ClearTimer(cid string) error {
	m.cleared = append(m.cleared, cid)
	delete(m.timers, cid)
	return nil
}

func (m *mockClient) Sync() error {
	m.synced = true
	return nil
}
