/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose     bool              `mapstructure:"verbose"`
	Config      string            `mapstructure:"config"`
	Vault       VaultConfig       `mapstructure:"vault" validate:"required"`
	Quests      QuestsConfig      `mapstructure:"quests" validate:"required"`
	Streak      StreakConfig      `mapstructure:"streak" validate:"required"`
	Progression ProgressionConfig `mapstructure:"progression" validate:"required"`
	Watch       WatchConfig       `mapstructure:"watch" validate:"required"`
	Character   CharacterConfig   `mapstructure:"character" validate:"required"`
	Ledger      LedgerConfig      `mapstructure:"ledger"`
	Log         LogConfig         `mapstructure:"log"`
}

// VaultConfig locates the directory that backs all quest storage
type VaultConfig struct {
	Root string `mapstructure:"root" validate:"required"`
}

// QuestsConfig holds quest folder settings
type QuestsConfig struct {
	BaseFolder string `mapstructure:"baseFolder" validate:"required"`
}

// StreakConfig selects which action advances the daily streak
type StreakConfig struct {
	Mode string `mapstructure:"mode" validate:"required,oneof=quest task"`
}

// ProgressionConfig selects the XP track used for new characters
type ProgressionConfig struct {
	Mode string `mapstructure:"mode" validate:"required,oneof=main training"`
}

// WatchConfig holds the folder watcher timings
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"required,min=1ms"`
	// PendingRelease must outlast the debounce window or the watcher would
	// reload a quest while its own save is still in flight.
	PendingRelease time.Duration `mapstructure:"pendingRelease" validate:"required,gtfield=Debounce"`
}

// CharacterConfig holds character state settings
type CharacterConfig struct {
	File  string `mapstructure:"file" validate:"required"`
	Name  string `mapstructure:"name" validate:"omitempty,min=1"`
	Class string `mapstructure:"class" validate:"omitempty,oneof=warrior paladin technomancer scholar rogue cleric bard"`
}

// LedgerConfig holds completion history settings
type LedgerConfig struct {
	Path     string `mapstructure:"path" validate:"omitempty,min=1"`
	Disabled bool   `mapstructure:"disabled"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}
