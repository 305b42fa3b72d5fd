package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	original := GetGlobalConfigDir
	GetGlobalConfigDir = func() (string, error) { return filepath.Join(dir, "home"), nil }
	t.Cleanup(func() { GetGlobalConfigDir = original })
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("QUESTWING_VAULT_ROOT", dir)

	res, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Empty(t, res.FileUsed)

	cfg := res.Config
	assert.Equal(t, dir, cfg.Vault.Root)
	assert.Equal(t, DefaultBaseFolder, cfg.Quests.BaseFolder)
	assert.Equal(t, "quest", cfg.Streak.Mode)
	assert.Equal(t, "main", cfg.Progression.Mode)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.PendingRelease)
	assert.Equal(t, DefaultCharacterFile, cfg.Character.File)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	dir := isolate(t)
	path := ProjectConfigFile(dir)

	require.NoError(t, WriteDefaultConfig(path, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "300ms")
	assert.Contains(t, strings.ToLower(string(data)), "basefolder")

	err = WriteDefaultConfig(path, false)
	assert.True(t, errors.Is(err, ErrConfigExists))
	require.NoError(t, WriteDefaultConfig(path, true))

	t.Setenv("QUESTWING_VAULT_ROOT", dir)
	res, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, path, res.FileUsed)
	assert.Equal(t, 300*time.Millisecond, res.Config.Watch.Debounce)
}

func TestLoad_FileOverridesAndEnvWins(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `quests:
  baseFolder: Adventures
streak:
  mode: task
watch:
  debounce: 100ms
  pendingRelease: 250ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("QUESTWING_PROGRESSION_MODE", "training")

	res, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, path, res.FileUsed)
	assert.Equal(t, "Adventures", res.Config.Quests.BaseFolder)
	assert.Equal(t, "task", res.Config.Streak.Mode)
	assert.Equal(t, "training", res.Config.Progression.Mode)
	assert.Equal(t, 100*time.Millisecond, res.Config.Watch.Debounce)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(viper.New(), filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_PendingReleaseMustExceedDebounce(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	content := `watch:
  debounce: 800ms
  pendingRelease: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch.pendingRelease")
}

func TestLoad_RejectsUnknownStreakMode(t *testing.T) {
	isolate(t)
	t.Setenv("QUESTWING_STREAK_MODE", "weekly")

	_, err := Load(viper.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "streak.mode")
}

func TestSetValue_CreatesAndUpdates(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, ".questwing", "config.yaml")

	require.NoError(t, SetValue(path, "streak.mode", "task"))
	require.NoError(t, SetValue(path, "quests.baseFolder", "Board"))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "task", v.GetString("streak.mode"))
	assert.Equal(t, "Board", v.GetString("quests.baseFolder"))
}
