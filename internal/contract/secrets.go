package contract

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name used for secrets in the OS keychain.
const KeyringService = "gitasana"

// Keychain item names.
const (
	AsanaTokenItem  = "asana-token"
	OpenAIKeyItem   = "openai-api-key"
	GeminiKeyItem   = "gemini-api-key"
	GitHubTokenItem = "github-token"
)

// ValidSecretItems lists the keychain items the CLI can store.
var ValidSecretItems = map[string]struct{}{
	AsanaTokenItem:  {},
	OpenAIKeyItem:   {},
	GeminiKeyItem:   {},
	GitHubTokenItem: {},
}

// LookupSecret returns the keychain value for item, or "" when it is absent
// or the keychain is unavailable.
func LookupSecret(item string) string {
	value, err := keyring.Get(KeyringService, item)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			Logger.WithError(err).WithField("item", item).Debug("keychain lookup failed")
		}
		return ""
	}
	return value
}

// StoreSecret saves value for item in the OS keychain.
func StoreSecret(item, value string) error {
	if _, ok := ValidSecretItems[item]; !ok {
		return fmt.Errorf("unknown secret %q", item)
	}
	if value == "" {
		return fmt.Errorf("secret %q cannot be empty", item)
	}
	if err := keyring.Set(KeyringService, item, value); err != nil {
		return fmt.Errorf("failed to save %q to OS keychain: %w", item, err)
	}
	return nil
}
