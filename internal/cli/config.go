package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openfield/pickup/internal/client"
)

// Config holds CLI configuration
type Config struct {
	ServerURL       string
	CredentialsFile string
	Output          string
	Verbose         bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:       getEnvOrDefault("PICKUP_SERVER", "http://localhost:8080"),
		CredentialsFile: getEnvOrDefault("PICKUP_CREDENTIALS_FILE", defaultCredentialsFile()),
		Output:          "text",
		Verbose:         false,
	}
}

// LoadTokens reads the saved token pair, if any
func (c *Config) LoadTokens() (client.Tokens, error) {
	data, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return client.Tokens{}, nil // not signed in yet
		}
		return client.Tokens{}, err
	}

	var tokens client.Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return client.Tokens{}, err
	}
	return tokens, nil
}

// SaveTokens persists the token pair for later invocations
func (c *Config) SaveTokens(tokens client.Tokens) error {
	dir := filepath.Dir(c.CredentialsFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return os.WriteFile(c.CredentialsFile, data, 0600)
}

// ClearTokens removes the saved token pair
func (c *Config) ClearTokens() error {
	err := os.Remove(c.CredentialsFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pickup/credentials.json"
	}
	return filepath.Join(home, ".pickup", "credentials.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
