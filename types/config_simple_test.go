package types

import (
	"testing"
	"time"
)

func TestAppConfig_Structure(t *testing.T) {
	config := AppConfig{
		Vault:       VaultConfig{Root: "/home/user/vault"},
		Quests:      QuestsConfig{BaseFolder: "QuestBoard"},
		Streak:      StreakConfig{Mode: "quest"},
		Progression: ProgressionConfig{Mode: "main"},
		Watch: WatchConfig{
			Debounce:       300 * time.Millisecond,
			PendingRelease: 500 * time.Millisecond,
		},
		Character: CharacterConfig{File: ".questwing/character.yaml", Class: "paladin"},
	}

	if config.Vault.Root != "/home/user/vault" {
		t.Errorf("Vault.Root mismatch: got %q, want %q", config.Vault.Root, "/home/user/vault")
	}
	if config.Quests.BaseFolder != "QuestBoard" {
		t.Errorf("Quests.BaseFolder mismatch: got %q, want %q", config.Quests.BaseFolder, "QuestBoard")
	}
	if config.Watch.PendingRelease <= config.Watch.Debounce {
		t.Errorf("PendingRelease %v should exceed Debounce %v", config.Watch.PendingRelease, config.Watch.Debounce)
	}
}

func TestLedgerConfig_ZeroValue(t *testing.T) {
	var config LedgerConfig
	if config.Disabled {
		t.Error("ledger should be enabled by default")
	}
	if config.Path != "" {
		t.Errorf("Path mismatch: got %q, want empty", config.Path)
	}
}
