package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/josephgoksu/QuestWing/types"
)

func TestResolvePath_RelativeToVault(t *testing.T) {
	cfg := &types.AppConfig{Vault: types.VaultConfig{Root: "/vault"}}

	if got := ResolvePath(cfg, ".questwing/ledger.db"); got != filepath.Join("/vault", ".questwing", "ledger.db") {
		t.Errorf("unexpected path: %s", got)
	}
	if got := ResolvePath(cfg, "/abs/ledger.db"); got != "/abs/ledger.db" {
		t.Errorf("absolute path should be kept, got: %s", got)
	}
	if got := ResolvePath(cfg, ""); got != "" {
		t.Errorf("empty path should stay empty, got: %s", got)
	}
}

func TestLedgerPath(t *testing.T) {
	cfg := &types.AppConfig{Vault: types.VaultConfig{Root: "/vault"}}
	if got := LedgerPath(cfg); got != filepath.Join("/vault", DefaultLedgerPath) {
		t.Errorf("expected default ledger path, got: %s", got)
	}

	cfg.Ledger.Disabled = true
	if got := LedgerPath(cfg); got != "" {
		t.Errorf("disabled ledger should have no path, got: %s", got)
	}
}

func TestProjectConfigFile(t *testing.T) {
	if got := ProjectConfigFile(""); got != filepath.Join(".", ".questwing", "config.yaml") {
		t.Errorf("unexpected default config file: %s", got)
	}
	if got := ProjectConfigFile("/vault"); got != "/vault/.questwing/config.yaml" {
		t.Errorf("unexpected config file: %s", got)
	}
}

func TestGetGlobalConfigDir_Override(t *testing.T) {
	original := GetGlobalConfigDir
	defer func() { GetGlobalConfigDir = original }()

	GetGlobalConfigDir = func() (string, error) {
		return "", errors.New("test error: cannot get home dir")
	}
	if _, err := GetGlobalConfigDir(); err == nil {
		t.Fatal("expected error from overridden dir func")
	}
}
