// Package client provides the Unix-socket client vesyncctl uses to talk to
// the vesyncd daemon.
package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"

	"github.com/jmylchreest/vesyncd/internal/config"
)

var dial = net.Dial

// Interface defines the daemon operations available to the CLI.
// Used for testability and mocking.
type Interface interface {
	Ping() error
	Version() (string, error)
	GetDevices() ([]map[string]any, error)
	GetDevice(cid string) (map[string]any, error)
	SetDevice(cid string, props map[string]any) error
	GetTimer(cid string) (map[string]any, error)
	SetTimer(cid string, duration int64, action string) (map[string]any, error)
	ClearTimer(cid string) error
	Sync() error
}

// Client represents a connection to vesyncd.
type Client struct {
	logger *slog.Logger
	socket string
}

// New creates a new client. An empty socket path falls back to the standard
// runtime location.
func New(logger *slog.Logger, socket string) *Client {
	if socket == "" {
		socket = config.GetRuntimeSocketPath()
		logger.Debug("Using default socket path", "socket", socket)
	} else {
		logger.Debug("Using provided socket path", "socket", socket)
	}

	return &Client{
		logger: logger,
		socket: socket,
	}
}

// request sends one action to vesyncd and decodes the response.
func (c *Client) request(action string, data map[string]any) (map[string]any, error) {
	c.logger.Debug("Connecting to socket", "socket", c.socket)
	conn, err := dial("unix", c.socket)
	if err != nil {
		c.logger.Error("Failed to connect to socket", "error", err, "socket", c.socket)
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	req := map[string]any{"action": action}
	if data != nil {
		req["data"] = data
	}

	c.logger.Debug("Encoding request", "request", req)
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		c.logger.Error("Failed to encode request", "error", err)
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var resp map[string]any
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		c.logger.Error("Failed to decode response", "error", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	c.logger.Debug("Received response", "response", resp)

	if errMsg, ok := resp["error"].(string); ok {
		c.logger.Error("Server returned error", "error", errMsg)
		return nil, fmt.Errorf("server error: %s", errMsg)
	}

	return resp, nil
}

// Ping checks that the daemon is responding.
func (c *Client) Ping() error {
	_, err := c.request("ping", nil)
	return err
}

// Version returns the daemon's version string.
func (c *Client) Version() (string, error) {
	resp, err := c.request("version", nil)
	if err != nil {
		return "", err
	}
	version, _ := resp["version"].(string)
	return version, nil
}

// GetDevices returns all managed devices.
func (c *Client) GetDevices() ([]map[string]any, error) {
	resp, err := c.request("list_devices", nil)
	if err != nil {
		return nil, err
	}

	raw, _ := resp["devices"].([]any)
	devices := make([]map[string]any, 0, len(raw))
	for _, d := range raw {
		if m, ok := d.(map[string]any); ok {
			devices = append(devices, m)
		}
	}
	return devices, nil
}

// GetDevice returns a single device by cid.
func (c *Client) GetDevice(cid string) (map[string]any, error) {
	resp, err := c.request("get_device", map[string]any{"cid": cid})
	if err != nil {
		return nil, err
	}
	device, _ := resp["device"].(map[string]any)
	return device, nil
}

// SetDevice applies one or more state properties to a device.
func (c *Client) SetDevice(cid string, props map[string]any) error {
	data := map[string]any{"cid": cid}
	for k, v := range props {
		data[k] = v
	}
	_, err := c.request("set_device", data)
	return err
}

// GetTimer returns the device's countdown timer, nil when none is armed.
func (c *Client) GetTimer(cid string) (map[string]any, error) {
	resp, err := c.request("get_timer", map[string]any{"cid": cid})
	if err != nil {
		return nil, err
	}
	timer, _ := resp["timer"].(map[string]any)
	return timer, nil
}

// SetTimer arms a countdown timer on a device.
func (c *Client) SetTimer(cid string, duration int64, action string) (map[string]any, error) {
	resp, err := c.request("set_timer", map[string]any{
		"cid":          cid,
		"duration":     duration,
		"timer_action": action,
	})
	if err != nil {
		return nil, err
	}
	timer, _ := resp["timer"].(map[string]any)
	return timer, nil
}

// ClearTimer removes the device's countdown timer.
func (c *Client) ClearTimer(cid string) error {
	_, err := c.request("clear_timer", map[string]any{"cid": cid})
	return err
}

// Sync asks the daemon to refresh its device registry from the cloud now.
func (c *Client) Sync() error {
	_, err := c.request("sync", nil)
	return err
}
