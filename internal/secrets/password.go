// Package secrets keeps the outbound-mail app password in the OS
// keychain so it never lands in the config file.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"dispatch-engine/internal/config"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "dispatch-engine"

func GetSMTPPassword(account string) (string, error) {
	if strings.TrimSpace(account) != "" {
		pw, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	return "", errors.New("smtp password not found (run `dispatch secret set`)")
}

func SetSMTPPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

func DeleteSMTPPassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

// SMTPKeyringAccount names the keychain entry for the configured mail
// identity, so two data dirs with different senders don't collide.
func SMTPKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf("dispatch:smtp:%s@%s", cfg.Outreach.SMTPUser, cfg.Outreach.SMTPHost)
}
