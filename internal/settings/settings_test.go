package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		env      map[string]string
		port     int
		notifyTo string
		host     string
		wantErr  bool
	}{
		{"defaults", nil, DefaultPort, "", DefaultSMTPHost, false},
		{"port", map[string]string{"PORT": "8080"}, 8080, "", DefaultSMTPHost, false},
		{"to falls back to user", map[string]string{"NOTIFY_EMAIL_USER": "u@x.io"}, DefaultPort, "u@x.io", DefaultSMTPHost, false},
		{"explicit to", map[string]string{"NOTIFY_EMAIL_USER": "u@x.io", "NOTIFY_EMAIL_TO": "a@x.io"}, DefaultPort, "a@x.io", DefaultSMTPHost, false},
		{"smtp host", map[string]string{"SMTP_HOST": "mail.x.io"}, DefaultPort, "", "mail.x.io", false},
		{"blank ignored", map[string]string{"PORT": " "}, DefaultPort, "", DefaultSMTPHost, false},
		{"bad port", map[string]string{"PORT": "abc"}, 0, "", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := Default()
			err := s.applyEnv(envFrom(tt.env))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if s.Port != tt.port {
				t.Fatalf("port=%d want %d", s.Port, tt.port)
			}
			if s.NotifyTo() != tt.notifyTo {
				t.Fatalf("notifyTo=%q want %q", s.NotifyTo(), tt.notifyTo)
			}
			if s.Mail.Host != tt.host {
				t.Fatalf("host=%q want %q", s.Mail.Host, tt.host)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	raw := []byte("port: 5000\nstore:\n  driver: sqlite\n  dsn: state.db\npayu:\n  api_key: k\n  merchant_id: m\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("PAYU_API_KEY", "env-key")
	t.Setenv("PORT", "")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Port != 5000 {
		t.Fatalf("port=%d want 5000", s.Port)
	}
	if s.Store.Driver != "sqlite" || s.Store.DSN != "state.db" {
		t.Fatalf("store=%+v", s.Store)
	}
	if c := s.Credentials(); c.APIKey != "env-key" || c.MerchantID != "m" {
		t.Fatalf("credentials=%+v", c)
	}
	if s.Mail.Host != DefaultSMTPHost {
		t.Fatalf("host=%q kept default", s.Mail.Host)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	s := Default()
	s.Store.Driver = "redis"
	if err := s.Validate(); err == nil {
		t.Fatalf("unknown driver accepted")
	}

	s = Default()
	s.Port = 70000
	if err := s.Validate(); err == nil {
		t.Fatalf("bad port accepted")
	}
}
