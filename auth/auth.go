// Package auth stores Xtream panel credentials.
// The host and username live in the config file; the password only ever
// goes to the system keyring.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/config"
	"github.com/xtplay/xtplay/constant"
	"github.com/xtplay/xtplay/key"
	"github.com/zalando/go-keyring"
)

// ErrNoCredentials is returned when no panel has been configured.
var ErrNoCredentials = errors.New("not logged in, run \"" + constant.App + " login\" first")

// Credentials identify an account on an Xtream Codes panel.
type Credentials struct {
	Host     string `validate:"required"`
	Username string `validate:"required"`
	Password string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that every field is present. Host and username may not be blank.
func (c Credentials) Validate() error {
	c.Host = strings.TrimSpace(c.Host)
	c.Username = strings.TrimSpace(c.Username)

	err := validate.Struct(c)
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) && len(invalid) > 0 {
		return fmt.Errorf("%s is required", strings.ToLower(invalid[0].Field()))
	}
	return err
}

// account is the keyring entry name, so several panels can coexist.
func account(host, username string) string {
	return username + "@" + host
}

// Save stores the password in the keyring and the rest in the config file.
func Save(c Credentials) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if err := keyring.Set(constant.App, account(c.Host, c.Username), c.Password); err != nil {
		return fmt.Errorf("keyring: %w", err)
	}

	viper.Set(key.PanelHost, c.Host)
	viper.Set(key.PanelUsername, c.Username)
	return config.Write()
}

// Load returns the saved credentials.
func Load() (Credentials, error) {
	host := viper.GetString(key.PanelHost)
	username := viper.GetString(key.PanelUsername)
	if host == "" || username == "" {
		return Credentials{}, ErrNoCredentials
	}

	password, err := keyring.Get(constant.App, account(host, username))
	if errors.Is(err, keyring.ErrNotFound) {
		return Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("keyring: %w", err)
	}

	return Credentials{Host: host, Username: username, Password: password}, nil
}

// Delete forgets the saved credentials. Forgetting nothing is not an error.
func Delete() error {
	host := viper.GetString(key.PanelHost)
	username := viper.GetString(key.PanelUsername)
	if host == "" || username == "" {
		return nil
	}

	err := keyring.Delete(constant.App, account(host, username))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring: %w", err)
	}

	viper.Set(key.PanelHost, "")
	viper.Set(key.PanelUsername, "")
	return config.Write()
}
