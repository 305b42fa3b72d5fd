// Package config provides centralized configuration defaults and loading for
// QuestWing. All default values are defined here to keep a single source of
// truth.
package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. QUESTWING_VAULT_ROOT.
	EnvPrefix = "QUESTWING"

	// StateDir holds per-vault state such as the character file and ledger.
	StateDir = ".questwing"

	// ConfigName is the config file base name searched in StateDir and $HOME.
	ConfigName = "config"
)

// Default values for the quest board.
const (
	DefaultVaultRoot      = "."
	DefaultBaseFolder     = "QuestBoard"
	DefaultStreakMode     = "quest"
	DefaultProgression    = "main"
	DefaultDebounce       = 300 * time.Millisecond
	DefaultPendingRelease = 500 * time.Millisecond
	DefaultCharacterFile  = StateDir + "/character.yaml"
	DefaultLedgerPath     = StateDir + "/ledger.db"
	DefaultLogLevel       = "info"
	DefaultCharacterName  = "Adventurer"
	DefaultCharacterClass = "warrior"
)

// Default is one key and its default value.
type Default struct {
	Key   string
	Value any
}

// Defaults lists every configuration key with its default, in the order they
// are written by WriteDefaultConfig.
var Defaults = []Default{
	{"vault.root", DefaultVaultRoot},
	{"quests.baseFolder", DefaultBaseFolder},
	{"streak.mode", DefaultStreakMode},
	{"progression.mode", DefaultProgression},
	{"watch.debounce", DefaultDebounce},
	{"watch.pendingRelease", DefaultPendingRelease},
	{"character.file", DefaultCharacterFile},
	{"character.name", DefaultCharacterName},
	{"character.class", DefaultCharacterClass},
	{"ledger.path", DefaultLedgerPath},
	{"ledger.disabled", false},
	{"log.level", DefaultLogLevel},
}

// ApplyDefaults registers Defaults on v.
func ApplyDefaults(v *viper.Viper) {
	for _, d := range Defaults {
		v.SetDefault(d.Key, d.Value)
	}
}
