// Package secrets reads credentials from the OS keychain with an
// environment variable fallback, so keys never live in the config file.
package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the app's secrets in the OS keychain.
const KeyringService = "leadflow"

const (
	AccountClearbit = "clearbit_api_key"
	AccountOpenAI   = "openai_api_key"
)

// Get looks up a credential: keychain first, then the env var. An empty
// result is not an error here; absent credentials select the mock or
// template path downstream.
func Get(account, envVar string) string {
	if pw, err := keyring.Get(KeyringService, account); err == nil && strings.TrimSpace(pw) != "" {
		return pw
	}
	return os.Getenv(envVar)
}

func ClearbitAPIKey() string { return Get(AccountClearbit, "CLEARBIT_API_KEY") }
func OpenAIAPIKey() string   { return Get(AccountOpenAI, "OPENAI_API_KEY") }

// IMAPPassword is required when the mailbox source is enabled.
func IMAPPassword(username, host string) (string, error) {
	account := "imap:" + username + "@" + host
	if pw, err := keyring.Get(KeyringService, account); err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	if pw := os.Getenv("LEADFLOW_IMAP_PASSWORD"); pw != "" {
		return pw, nil
	}
	return "", errors.New("IMAP password not found (set it in the keychain or LEADFLOW_IMAP_PASSWORD)")
}

func SetIMAPPassword(username, host, password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, "imap:"+username+"@"+host, password)
}
