package handlers

import (
	"context"
)

// --- Version ---

// VersionInput is the input for the version endpoint.
type VersionInput struct{}

// VersionOutput is the output for the version endpoint.
type VersionOutput struct {
	Body struct {
		Version string `json:"version" doc:"Running daemon version"`
	}
}

// VersionHandler reports the daemon build version.
type VersionHandler struct {
	Version string
}

// Get returns the daemon version.
func (h VersionHandler) Get(_ context.Context, _ *VersionInput) (*VersionOutput, error) {
	out := &VersionOutput{}
	out.Body.Version = h.Version
	return out, nil
}
