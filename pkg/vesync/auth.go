package vesync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

// Credentials holds the account identity required to talk to the cloud API.
// Token and AccountID are filled in by a successful login.
type Credentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	AccountID   string `json:"account_id"`
	Token       string `json:"token"`
	CountryCode string `json:"country_code"`
}

// Authenticated reports whether a login token is present.
func (c *Credentials) Authenticated() bool {
	return c != nil && c.Token != "" && c.AccountID != ""
}

// LoadCredentials reads credentials from a JSON file previously written by
// SaveCredentials.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("credentials file %s", path)
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}
	return &creds, nil
}

// Save writes the credentials to a JSON file, creating parent directories as
// needed. The file is written 0600 since it contains the session token.
func (c *Credentials) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create credentials directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file %s: %w", path, err)
	}
	return nil
}
