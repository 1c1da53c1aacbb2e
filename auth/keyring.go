// Package auth stores the credentials resolver plugins log in with in the system keyring.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urlresolver/urlresolver/constant"
	"github.com/zalando/go-keyring"
)

// ErrNoCredentials is returned when no credentials were saved for a plugin.
var ErrNoCredentials = errors.New("no credentials saved")

// Credentials are the username and password a plugin logs in with.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func user(plugin string) string {
	return "plugin:" + plugin
}

// Set saves the credentials of plugin.
func Set(plugin string, creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(constant.Urlresolver, user(plugin), string(data))
}

// Get returns the saved credentials of plugin, or ErrNoCredentials.
func Get(plugin string) (Credentials, error) {
	var creds Credentials

	secret, err := keyring.Get(constant.Urlresolver, user(plugin))
	if errors.Is(err, keyring.ErrNotFound) {
		return creds, fmt.Errorf("%s: %w", plugin, ErrNoCredentials)
	}
	if err != nil {
		return creds, err
	}

	if err := json.Unmarshal([]byte(secret), &creds); err != nil {
		return creds, fmt.Errorf("%s: decode credentials: %w", plugin, err)
	}
	return creds, nil
}

// Delete removes the saved credentials of plugin. Missing credentials are not an error.
func Delete(plugin string) error {
	err := keyring.Delete(constant.Urlresolver, user(plugin))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
