package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Environment variables checked for the API key, in resolution order
const (
	EnvAPIKey    = "GEMINI_API_KEY"
	EnvAPIKeyAlt = "GOOGLE_API_KEY"
)

// Credentials holds the Generative Language API key
type Credentials struct {
	mu     sync.RWMutex `json:"-"` // Not serialized
	APIKey string       `json:"api_key"`
}

// Get returns the API key in a thread-safe manner
func (c *Credentials) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.APIKey
}

// Set updates the API key (thread-safe)
func (c *Credentials) Set(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.APIKey = key
}

// LoadCredentials resolves the API key from the environment, a .env file in
// the working directory, or the credentials file, in that order.
func LoadCredentials() (*Credentials, error) {
	if key := keyFromEnv(); key != "" {
		return &Credentials{APIKey: key}, nil
	}

	// Project-local setups may carry the key in a .env file
	_ = godotenv.Load()
	if key := keyFromEnv(); key != "" {
		return &Credentials{APIKey: key}, nil
	}

	credsPath, err := GetCredentialsPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(credsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no API key found. Set %s or run:\n  geministudio config set-key <api-key>", EnvAPIKey)
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	return parseCredentials(data)
}

func keyFromEnv() string {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(EnvAPIKeyAlt))
}

// parseCredentials parses the credentials file
// Supports both JSON format {"api_key": "..."} and a bare key on a single line
func parseCredentials(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err == nil {
		if creds.APIKey == "" {
			return nil, fmt.Errorf("credentials file is missing required field: api_key")
		}
		return &creds, nil
	}

	key := strings.TrimSpace(string(data))
	if err := ValidateKey(key); err != nil {
		return nil, fmt.Errorf("invalid credentials format: expected {\"api_key\": ...} or a bare key")
	}
	return &Credentials{APIKey: key}, nil
}

// SaveCredentials saves the API key to the credentials file
func SaveCredentials(creds *Credentials) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	credsPath := filepath.Join(configDir, "credentials.json")

	data, err := json.MarshalIndent(map[string]string{"api_key": creds.Get()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// Save with restrictive permissions (owner read/write only)
	if err := os.WriteFile(credsPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}

// ImportKey validates and stores an API key
func ImportKey(key string) error {
	key = strings.TrimSpace(key)
	if err := ValidateKey(key); err != nil {
		return err
	}

	return SaveCredentials(&Credentials{APIKey: key})
}

// ValidateCredentials checks if credentials are usable
func ValidateCredentials(creds *Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials are nil")
	}
	if creds.Get() == "" {
		return fmt.Errorf("missing required credential: api_key")
	}
	return nil
}

// ValidateKey checks an API key's shape without calling the API
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("API key is empty")
	}
	if strings.ContainsAny(key, " \t\n") {
		return fmt.Errorf("API key must not contain whitespace")
	}
	return nil
}
