package config

import (
	"os"
	"path/filepath"

	"github.com/josephgoksu/QuestWing/types"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.questwing).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, StateDir), nil
}

// ResolvePath anchors p at the vault root unless it is already absolute.
func ResolvePath(cfg *types.AppConfig, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	root := cfg.Vault.Root
	if root == "" {
		root = DefaultVaultRoot
	}
	return filepath.Join(root, p)
}

// LedgerPath returns the on-disk ledger location, or "" when the ledger is
// disabled.
func LedgerPath(cfg *types.AppConfig) string {
	if cfg.Ledger.Disabled {
		return ""
	}
	p := cfg.Ledger.Path
	if p == "" {
		p = DefaultLedgerPath
	}
	return ResolvePath(cfg, p)
}

// CrashLogBase returns the state directory used for crash logs.
func CrashLogBase(cfg *types.AppConfig) string {
	return ResolvePath(cfg, StateDir)
}

// ProjectConfigFile is where WriteDefaultConfig puts a vault-local config.
func ProjectConfigFile(vaultRoot string) string {
	if vaultRoot == "" {
		vaultRoot = DefaultVaultRoot
	}
	return filepath.Join(vaultRoot, StateDir, ConfigName+".yaml")
}
