// Package routes provides shared route registration for the vesyncd HTTP API.
package routes

import (
	"github.com/danielgtaylor/huma/v2"
)

// NewHumaConfig creates the shared Huma configuration for the API.
func NewHumaConfig(version, baseURL string) huma.Config {
	cfg := huma.DefaultConfig("vesyncd API", version)
	cfg.Info.Description = "REST API for controlling VeSync smart-home appliances via the vesyncd daemon."

	// Disable $schema field in responses
	cfg.CreateHooks = nil

	if baseURL != "" {
		cfg.Servers = []*huma.Server{
			{URL: baseURL, Description: "API Server"},
		}
	}

	cfg.Tags = []*huma.Tag{
		{Name: "Devices", Description: "Device listing and control"},
		{Name: "Timers", Description: "Device countdown timers"},
		{Name: "Health", Description: "Service health"},
		{Name: "Version", Description: "Build information"},
	}

	return cfg
}
