package secrets

import (
	"errors"
	"fmt"
	"strings"

	"easyapply-engine/internal/config"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the engine's secrets in the OS keychain.
const KeyringService = "easyapply"

var ErrNoPassword = errors.New("IMAP password not found (set it in the keychain or EASYAPPLY_IMAP_PASSWORD)")

func GetIMAPPassword(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		pw, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	return "", ErrNoPassword
}

func SetIMAPPassword(keyringAccount string, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteIMAPPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

func IMAPKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf("easyapply:imap:%s@%s", cfg.Email.Username, cfg.Email.IMAPHost)
}

// IMAPPassword resolves the password for cfg: the environment override
// first, then the keychain.
func IMAPPassword(cfg config.Config) (string, error) {
	if pw := strings.TrimSpace(cfg.Email.AppPassword); pw != "" {
		return pw, nil
	}
	return GetIMAPPassword(IMAPKeyringAccount(cfg))
}
