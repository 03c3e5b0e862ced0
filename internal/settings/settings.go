// Package settings loads server settings from a YAML file and the environment.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/invopop/yaml"

	"github.com/woozymasta/beato-configurator/internal/checkout"
	"github.com/woozymasta/beato-configurator/internal/notify"
)

// Defaults.
const (
	DefaultPort     = 4000
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultFromName = "Notificaciones Beato"
	DefaultStore    = "file"
	DefaultStoreDSN = "state"
)

// Settings of the configurator server.
type Settings struct {
	Port     int    `json:"port"`
	Products string `json:"products,omitempty"` // directory of product definitions, builtin when empty
	Watch    bool   `json:"watch,omitempty"`    // reload definitions on change

	Store Store `json:"store"`
	PayU  PayU  `json:"payu"`
	Mail  Mail  `json:"mail"`
}

// Store selects the snapshot backend.
type Store struct {
	Driver string `json:"driver"` // file or sqlite
	DSN    string `json:"dsn"`    // directory or database path
}

// PayU holds the merchant credentials.
type PayU struct {
	APIKey     string `json:"api_key"`
	MerchantID string `json:"merchant_id"`
}

// Mail configures payment notifications.
type Mail struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	To       string `json:"to"` // defaults to User
	FromName string `json:"from_name"`
}

// Default returns settings with defaults applied.
func Default() Settings {
	return Settings{
		Port:  DefaultPort,
		Store: Store{Driver: DefaultStore, DSN: DefaultStoreDSN},
		Mail:  Mail{Host: DefaultSMTPHost, Port: 587, FromName: DefaultFromName},
	}
}

// Load reads path (optional) over the defaults and applies environment overrides.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return s, err
		}
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return s, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := s.applyEnv(os.LookupEnv); err != nil {
		return s, err
	}

	return s, s.Validate()
}

// applyEnv overrides settings from environment variables.
func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("PAYU_API_KEY", &s.PayU.APIKey)
	str("PAYU_MERCHANT_ID", &s.PayU.MerchantID)
	str("NOTIFY_EMAIL_USER", &s.Mail.User)
	str("NOTIFY_EMAIL_PASS", &s.Mail.Password)
	str("NOTIFY_EMAIL_TO", &s.Mail.To)
	str("SMTP_HOST", &s.Mail.Host)
	str("PRODUCTS_DIR", &s.Products)
	str("STORE_DRIVER", &s.Store.Driver)
	str("STORE_DSN", &s.Store.DSN)

	if err := num("SMTP_PORT", &s.Mail.Port); err != nil {
		return err
	}

	return num("PORT", &s.Port)
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	switch s.Store.Driver {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown store driver %q", s.Store.Driver)
	}
	if s.Store.DSN == "" {
		return errors.New("store dsn is empty")
	}

	return nil
}

// Addr returns the listen address.
func (s Settings) Addr() string {
	return ":" + strconv.Itoa(s.Port)
}

// Credentials returns the payment credentials.
func (s Settings) Credentials() checkout.Credentials {
	return checkout.Credentials{APIKey: s.PayU.APIKey, MerchantID: s.PayU.MerchantID}
}

// NotifyTo returns the recipient of payment notifications.
func (s Settings) NotifyTo() string {
	if s.Mail.To != "" {
		return s.Mail.To
	}

	return s.Mail.User
}

// MailEnabled reports whether SMTP credentials are configured.
func (s Settings) MailEnabled() bool {
	return s.Mail.User != "" && s.Mail.Password != ""
}

// SMTP returns the mailer configuration.
func (s Settings) SMTP() notify.SMTPConfig {
	return notify.SMTPConfig{
		Host:     s.Mail.Host,
		Port:     s.Mail.Port,
		Username: s.Mail.User,
		Password: s.Mail.Password,
		FromName: s.Mail.FromName,
	}
}
