package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		// an explicit path that does not exist is a read error, not a silent default
		t.Fatalf("expected error for explicit missing config file, got %+v", cfg)
	}

	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Platform.FeeRate != 0.10 {
		t.Errorf("fee rate = %v, want 0.10", cfg.Platform.FeeRate)
	}
	if cfg.Reservation.TTL != 15*time.Minute {
		t.Errorf("reservation ttl = %v, want 15m", cfg.Reservation.TTL)
	}
	if cfg.Database.Type != "mock" || cfg.UsesMySQL() {
		t.Errorf("database type = %q, want mock", cfg.Database.Type)
	}
	if cfg.Shipping.HubPostalCode != "01310100" {
		t.Errorf("hub postal code = %q", cfg.Shipping.HubPostalCode)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("app:\n  env: production\nauth:\n  jwt_secret: s3cr3t-from-vault\nplatform:\n  fee_rate: 0.12\nreservation:\n  ttl: 5m\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POSI_SERVER_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.IsProduction() {
		t.Errorf("env = %q, want production", cfg.App.Env)
	}
	if cfg.Platform.FeeRate != 0.12 {
		t.Errorf("fee rate = %v, want 0.12", cfg.Platform.FeeRate)
	}
	if cfg.Reservation.TTL != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", cfg.Reservation.TTL)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want env override 9090", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalidFeeRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("platform:\n  fee_rate: 1.5\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for fee_rate 1.5")
	}
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		wantErr bool
	}{
		{"production with default secret", "app:\n  env: production\n", nil, true},
		{"production with secret from env", "app:\n  env: production\n", map[string]string{"POSI_AUTH_JWT_SECRET": "rotated-key"}, false},
		{"development with default secret", "app:\n  env: development\n", nil, false},
		{"empty secret", "auth:\n  jwt_secret: \"\"\n", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
