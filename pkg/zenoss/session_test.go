package zenoss_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
	"github.com/nerrad567/zenoss-client/pkg/zenoss/zenosstest"
)

// =============================================================================
// Session Construction Tests
// =============================================================================

func TestNewSession_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  zenoss.Config
	}{
		{name: "empty url", cfg: zenoss.Config{}},
		{name: "unsupported scheme", cfg: zenoss.Config{URL: "ftp://zenoss.example.com"}},
		{name: "missing host", cfg: zenoss.Config{URL: "http://"}},
		{name: "unknown auth method", cfg: zenoss.Config{URL: "http://zenoss.example.com", Auth: "kerberos"}},
		{name: "cert without key", cfg: zenoss.Config{
			URL: "https://zenoss.example.com",
			TLS: zenoss.TLSConfig{CertFile: "client.pem"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := zenoss.NewSession(tt.cfg)
			if !errors.Is(err, zenoss.ErrValidation) {
				t.Errorf("NewSession() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestNewSession_Defaults(t *testing.T) {
	s, err := zenoss.NewSession(zenoss.Config{URL: "http://zenoss.example.com:8080/"})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if s.Auth() != zenoss.AuthCookie {
		t.Errorf("Auth() = %q, want %q", s.Auth(), zenoss.AuthCookie)
	}
	if s.BaseURL() != "http://zenoss.example.com:8080" {
		t.Errorf("BaseURL() = %q, trailing slash not trimmed", s.BaseURL())
	}
	if got, want := s.RouterURL("evconsole"), "http://zenoss.example.com:8080/zport/dmd/evconsole_router"; got != want {
		t.Errorf("RouterURL() = %q, want %q", got, want)
	}
	if got, want := s.LoginURL(), "http://zenoss.example.com:8080/zport/acl_users/cookieAuthHelper/login"; got != want {
		t.Errorf("LoginURL() = %q, want %q", got, want)
	}
	if s.LastTID() != 0 {
		t.Errorf("LastTID() = %d before any request, want 0", s.LastTID())
	}
	if s.ID() == "" {
		t.Error("ID() is empty")
	}
}

func TestNewSession_CustomMountPath(t *testing.T) {
	s, err := zenoss.NewSession(zenoss.Config{URL: "http://zenoss.example.com", MountPath: "/zenoss/"})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if got, want := s.RouterURL("device"), "http://zenoss.example.com/zenoss/dmd/device_router"; got != want {
		t.Errorf("RouterURL() = %q, want %q", got, want)
	}
}

func TestNewSession_IndependentSessions(t *testing.T) {
	a, err := zenoss.NewSession(zenoss.Config{URL: "http://a.example.com"})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	b, err := zenoss.NewSession(zenoss.Config{URL: "http://b.example.com"})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if a.ID() == b.ID() {
		t.Error("two sessions share an ID")
	}
}

func TestNewSession_TLSMaterial(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing CA file", func(t *testing.T) {
		_, err := zenoss.NewSession(zenoss.Config{
			URL: "https://zenoss.example.com",
			TLS: zenoss.TLSConfig{CAFile: filepath.Join(tmpDir, "missing.pem")},
		})
		if err == nil {
			t.Error("NewSession() should fail for a missing CA file")
		}
	})

	t.Run("CA file without certificates", func(t *testing.T) {
		path := filepath.Join(tmpDir, "empty.pem")
		if err := os.WriteFile(path, []byte("not a certificate"), 0600); err != nil {
			t.Fatalf("writing CA file: %v", err)
		}
		_, err := zenoss.NewSession(zenoss.Config{
			URL: "https://zenoss.example.com",
			TLS: zenoss.TLSConfig{CAFile: path},
		})
		if !errors.Is(err, zenoss.ErrValidation) {
			t.Errorf("NewSession() error = %v, want ErrValidation", err)
		}
	})

	t.Run("insecure skip verify only", func(t *testing.T) {
		_, err := zenoss.NewSession(zenoss.Config{
			URL: "https://zenoss.example.com",
			TLS: zenoss.TLSConfig{InsecureSkipVerify: true},
		})
		if err != nil {
			t.Errorf("NewSession() error = %v", err)
		}
	})
}

// =============================================================================
// Login Tests
// =============================================================================

func TestLogin_Cookie(t *testing.T) {
	srv := zenosstest.New()
	defer srv.Close()

	s, err := zenoss.NewSession(zenoss.Config{
		URL:      srv.URL,
		Username: zenosstest.DefaultUsername,
		Password: zenosstest.DefaultPassword,
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if err := s.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !s.LoggedIn() {
		t.Error("LoggedIn() = false after Login()")
	}
	if srv.Logins() != 1 {
		t.Errorf("server saw %d logins, want 1", srv.Logins())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := zenosstest.New()
	defer srv.Close()

	_, err := zenoss.Connect(context.Background(), zenoss.Config{
		URL:      srv.URL,
		Username: zenosstest.DefaultUsername,
		Password: "wrong",
	})
	if !errors.Is(err, zenoss.ErrAuthentication) {
		t.Errorf("Connect() error = %v, want ErrAuthentication", err)
	}
}

func TestLogin_Unreachable(t *testing.T) {
	_, err := zenoss.Connect(context.Background(), zenoss.Config{
		URL:      "http://127.0.0.1:59999", // Non-existent port
		Username: "admin",
		Password: "zenoss",
	})
	if !errors.Is(err, zenoss.ErrAuthentication) {
		t.Errorf("Connect() error = %v, want ErrAuthentication", err)
	}
}

func TestLogin_BasicIsLazy(t *testing.T) {
	srv := zenosstest.New(zenosstest.WithBasicAuth())
	defer srv.Close()

	_, err := zenoss.Connect(context.Background(), zenoss.Config{
		URL:      srv.URL,
		Username: zenosstest.DefaultUsername,
		Password: "wrong",
		Auth:     zenoss.AuthBasic,
	})
	if err != nil {
		t.Fatalf("Connect() error = %v, basic auth should not log in", err)
	}
	if srv.Logins() != 0 {
		t.Errorf("server saw %d logins, want 0", srv.Logins())
	}
}
