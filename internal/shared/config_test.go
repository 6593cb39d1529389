package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.RedirectURI != "http://localhost:3000/callback" {
			t.Errorf("expected default redirect URI, got %s", config.Credentials.Spotify.RedirectURI)
		}
		if config.Credentials.Spotify.ClientID != "" {
			t.Errorf("expected empty client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.HTTP.Timeout.Duration != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.HTTP.Timeout.Duration)
		}
		if config.Search.Concurrency != 8 {
			t.Errorf("expected bounded search concurrency 8, got %d", config.Search.Concurrency)
		}
		if len(config.Server.AllowedOrigins) != 5 {
			t.Errorf("expected 5 allowed origins, got %d", len(config.Server.AllowedOrigins))
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Server.Port != DefaultConfig().Server.Port {
			t.Errorf("created config port doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[http]
timeout = "3s"

[search]
concurrency = 4
rate_limit = 2.5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.HTTP.Timeout.Duration != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", config.HTTP.Timeout.Duration)
		}
		if config.Search.Concurrency != 4 || config.Search.RateLimit != 2.5 {
			t.Errorf("unexpected search config %+v", config.Search)
		}
		if len(config.Server.AllowedOrigins) != 5 {
			t.Errorf("expected default origins to survive partial config, got %v", config.Server.AllowedOrigins)
		}
	})

	t.Run("LoadConfig invalid duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[http]\ntimeout = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")
		t.Setenv("PORT", "7000")
		t.Setenv("SETLIST_HTTP_TIMEOUT", "2s")
		t.Setenv("SETLIST_ALLOWED_ORIGINS", "http://a.test,http://b.test")

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Server.Port != 7000 {
			t.Errorf("expected port 7000, got %d", config.Server.Port)
		}
		if config.HTTP.Timeout.Duration != 2*time.Second {
			t.Errorf("expected 2s timeout, got %v", config.HTTP.Timeout.Duration)
		}
		if len(config.Server.AllowedOrigins) != 2 {
			t.Errorf("expected 2 origins, got %v", config.Server.AllowedOrigins)
		}
		if config.Credentials.Spotify.RedirectURI != "http://localhost:3000/callback" {
			t.Errorf("unset variables should keep file values, got %s", config.Credentials.Spotify.RedirectURI)
		}
	})

	t.Run("ApplyEnv invalid port", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")

		err := DefaultConfig().ApplyEnv()
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("expected ErrConfiguration, got %v", err)
		}
	})

	t.Run("LoadDotEnv", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		if err := os.WriteFile(path, []byte("SETLIST_DOTENV_PROBE=loaded\n"), 0600); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("SETLIST_DOTENV_PROBE") })

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}
		if got := os.Getenv("SETLIST_DOTENV_PROBE"); got != "loaded" {
			t.Errorf("expected variable from .env, got %q", got)
		}

		if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
			t.Errorf("missing .env should not be an error, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			mutate  func(*Config)
			wantErr bool
		}{
			{
				name: "complete",
				mutate: func(c *Config) {
					c.Credentials.Spotify.ClientID = "id"
					c.Credentials.Spotify.ClientSecret = "secret"
				},
			},
			{
				name:    "defaults lack credentials",
				mutate:  func(c *Config) {},
				wantErr: true,
			},
			{
				name: "missing redirect",
				mutate: func(c *Config) {
					c.Credentials.Spotify.ClientID = "id"
					c.Credentials.Spotify.ClientSecret = "secret"
					c.Credentials.Spotify.RedirectURI = ""
				},
				wantErr: true,
			},
			{
				name: "bad port",
				mutate: func(c *Config) {
					c.Credentials.Spotify.ClientID = "id"
					c.Credentials.Spotify.ClientSecret = "secret"
					c.Server.Port = 0
				},
				wantErr: true,
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)

				err := config.Validate()
				if (err != nil) != tt.wantErr {
					t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
				if tt.wantErr && !errors.Is(err, ErrConfiguration) {
					t.Errorf("expected ErrConfiguration, got %v", err)
				}
			})
		}
	})
}

func TestServerAddr(t *testing.T) {
	tc := []struct {
		host string
		port int
		want string
	}{
		{"127.0.0.1", 5000, "127.0.0.1:5000"},
		{"", 5000, ":5000"},
		{"::1", 5000, "[::1]:5000"},
		{"localhost", 8080, "localhost:8080"},
	}
	for _, c := range tc {
		t.Run(c.want, func(t *testing.T) {
			s := ServerConfig{Host: c.host, Port: c.port}
			if got := s.Addr(); got != c.want {
				t.Errorf("Addr() = %q, want %q", got, c.want)
			}
		})
	}
}
