package main

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/depotdesk/depotdesk/internal/config"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func sampleConfig() config.Config {
	return config.Config{
		Server:   config.ServerConfig{Port: 8000, Mode: "development"},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: "./depotdesk.db"},
		Auth: config.AuthConfig{
			JWTSecret:       "super-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
			Blacklist:       config.BlacklistConfig{Type: "database"},
		},
		Log: config.LogConfig{Format: "text", Level: "info"},
	}
}

func TestRenderConfig_Formats(t *testing.T) {
	cfg := sampleConfig().Redacted()

	out, err := renderConfig(cfg, "yaml")
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML map[string]interface{}
	if err := yaml.Unmarshal(out, &fromYAML); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if strings.Contains(string(out), "super-secret") {
		t.Error("yaml output leaks the jwt secret")
	}

	out, err = renderConfig(cfg, "toml")
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	var fromTOML map[string]interface{}
	if err := toml.Unmarshal(out, &fromTOML); err != nil {
		t.Fatalf("toml output does not parse: %v", err)
	}

	out, err = renderConfig(cfg, "json")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON config.Config
	if err := json.Unmarshal(out, &fromJSON); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if fromJSON.Server.Port != 8000 {
		t.Errorf("unexpected port %d", fromJSON.Server.Port)
	}

	if _, err := renderConfig(cfg, "xml"); err == nil {
		t.Error("expected unsupported format error")
	}
}

func TestPromptPassword_NonTerminal(t *testing.T) {
	var out strings.Builder

	got, err := promptPassword(&out, strings.NewReader("hunter22\n"))
	if err != nil {
		t.Fatalf("promptPassword: %v", err)
	}
	if got != "hunter22" {
		t.Errorf("got %q", got)
	}

	if _, err := promptPassword(&out, strings.NewReader("")); err == nil {
		t.Error("expected empty input to fail")
	}
}
