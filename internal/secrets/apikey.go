package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "jobfinder"
	// KeyringAccount holds the OpenRouter API key.
	KeyringAccount = "openrouter"

	APIKeyEnv = "OPENROUTER_API_KEY"
)

// Resolver finds the OpenRouter API key. The zero value reads the real
// environment and keychain.
type Resolver struct {
	Getenv     func(string) string
	KeyringGet func(service, user string) (string, error)
}

// APIKey returns the key from the environment, else from the keychain, else "".
func (r Resolver) APIKey() string {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if k := strings.TrimSpace(getenv(APIKeyEnv)); k != "" {
		return k
	}

	kget := r.KeyringGet
	if kget == nil {
		kget = keyring.Get
	}
	k, err := kget(KeyringService, KeyringAccount)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(k)
}

func SetAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, KeyringAccount, strings.TrimSpace(key))
}

func DeleteAPIKey() error {
	err := keyring.Delete(KeyringService, KeyringAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
