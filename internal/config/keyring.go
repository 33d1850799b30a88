package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "trip-planner"
	keyringUser    = "google-api-key"
)

var (
	// ErrAPIKeyNotFound is returned when no API key is configured anywhere
	ErrAPIKeyNotFound = errors.New("Google API key not found; run 'planner key set' or set PLANNER_GOOGLE_API_KEY")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetAPIKey retrieves the Google API key from the OS keyring.
func GetAPIKey() (string, error) {
	key, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrAPIKeyNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return key, nil
}

// SetAPIKey stores the Google API key in the OS keyring.
func SetAPIKey(key string) error {
	if key == "" {
		return errors.New("API key cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringUser, key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the Google API key from the OS keyring.
func DeleteAPIKey() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil {
		if err == keyring.ErrNotFound {
			return ErrAPIKeyNotFound
		}
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}
	return nil
}

// ResolveAPIKey fills Google.APIKey from the keyring when the file and
// environment left it empty. Only the Google provider needs a key.
func (c *Config) ResolveAPIKey() error {
	if c.Provider != ProviderGoogle || c.Google.APIKey != "" {
		return nil
	}
	key, err := GetAPIKey()
	if err != nil {
		return err
	}
	c.Google.APIKey = key
	return nil
}
