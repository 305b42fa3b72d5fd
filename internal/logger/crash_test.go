package logger

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrashHandler_SetContext(t *testing.T) {
	globalContext = &CrashContext{}

	SetBasePath("/tmp/test-questwing")
	SetVersion("1.0.0-test")
	SetCommand("move")
	SetLastAction("slay-dragon", "move completed")

	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	assert.Equal(t, "/tmp/test-questwing", globalContext.basePath)
	assert.Equal(t, "1.0.0-test", globalContext.version)
	assert.Equal(t, "move", globalContext.command)
	assert.Equal(t, "slay-dragon", globalContext.lastQuest)
	assert.Equal(t, "move completed", globalContext.lastAction)
}

func TestCrashHandler_SetLastAction_Truncation(t *testing.T) {
	globalContext = &CrashContext{}

	SetLastAction("q", strings.Repeat("a", 3000))

	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()
	assert.LessOrEqual(t, len(globalContext.lastAction), 520)
	assert.Contains(t, globalContext.lastAction, "[truncated]")
}

func TestCrashHandler_CreateCrashLog(t *testing.T) {
	globalContext = &CrashContext{version: "1.0.0", command: "toggle", lastQuest: "brew-potion"}

	log := createCrashLog("test panic")

	assert.Equal(t, "test panic", log.PanicValue)
	assert.Equal(t, "1.0.0", log.Version)
	assert.Equal(t, "toggle", log.Command)
	assert.Equal(t, "brew-potion", log.LastQuest)
	assert.NotEmpty(t, log.StackTrace)
	assert.NotEmpty(t, log.GoVersion)
}

func TestCrashHandler_WriteAndReadCrashLog(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), ".questwing")
	globalContext = &CrashContext{basePath: basePath}

	log := CrashLog{
		Timestamp:  time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC),
		Version:    "1.0.0",
		Command:    "move",
		PanicValue: "test panic",
		StackTrace: "goroutine 1 [running]:\nmain.main()",
		GoVersion:  "go1.24",
	}
	require.NoError(t, writeCrashLog(log))

	_, err := os.Stat(filepath.Join(basePath, CrashLogDir))
	require.NoError(t, err)

	logs, err := ListCrashLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "crash_20250611_090000.json", filepath.Base(logs[0]))

	got, err := ReadCrashLog(logs[0])
	require.NoError(t, err)
	assert.Equal(t, "test panic", got.PanicValue)
	assert.Equal(t, "move", got.Command)
	assert.True(t, got.Timestamp.Equal(log.Timestamp))
}

func TestCrashHandler_CleanOldLogs(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), ".questwing")
	crashDir := filepath.Join(basePath, CrashLogDir)
	require.NoError(t, os.MkdirAll(crashDir, 0755))
	globalContext = &CrashContext{basePath: basePath}

	for i := 0; i < MaxCrashLogs+5; i++ {
		name := filepath.Join(crashDir, fmt.Sprintf("crash_20250101_12%04d.json", i))
		require.NoError(t, os.WriteFile(name, []byte("{}"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(crashDir, "notes.txt"), []byte("keep"), 0644))

	require.NoError(t, cleanOldCrashLogs(crashDir))

	logs, err := ListCrashLogs()
	require.NoError(t, err)
	require.Len(t, logs, MaxCrashLogs)
	assert.Equal(t, "crash_20250101_120005.json", filepath.Base(logs[0]))
	_, err = os.Stat(filepath.Join(crashDir, "notes.txt"))
	assert.NoError(t, err)
}

func TestCrashHandler_DefaultBasePath(t *testing.T) {
	globalContext = &CrashContext{}
	assert.Equal(t, filepath.Join(".questwing", "crash_logs"), getCrashLogDir())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetup_FiltersBelowLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	l := Setup(slog.LevelWarn, &buf)
	l.Info("hidden")
	slog.Warn("skipping invalid quest file", "path", "QuestBoard/x.md")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "skipping invalid quest file")
	assert.Contains(t, out, "path=QuestBoard/x.md")
}
