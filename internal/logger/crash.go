// Package logger provides log setup plus crash logging and recovery for
// QuestWing.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// CrashLogDir is the directory for crash logs relative to the state dir.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep.
	MaxCrashLogs = 10

	defaultBasePath = ".questwing"
)

// CrashContext stores what the process was doing when it crashed.
type CrashContext struct {
	mu         sync.RWMutex
	command    string
	version    string
	basePath   string
	lastQuest  string
	lastAction string
}

var globalContext = &CrashContext{}

// SetBasePath sets the state directory crash logs are written under.
func SetBasePath(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.basePath = path
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

// SetLastAction records the quest and action in flight, e.g. ("slay-dragon", "move completed").
func SetLastAction(questID, action string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.lastQuest = strings.TrimSpace(questID)
	globalContext.lastAction = truncateForLog(strings.TrimSpace(action), 500)
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	LastQuest  string    `json:"last_quest,omitempty"`
	LastAction string    `json:"last_action,omitempty"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic is a deferred function that recovers from panics and logs them.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		log := createCrashLog(r)
		if err := writeCrashLog(log); err != nil {
			fmt.Fprintf(os.Stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
			fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, debug.Stack())
		} else {
			fmt.Fprintf(os.Stderr, "\nQuestWing hit an unexpected error.\n")
			fmt.Fprintf(os.Stderr, "A crash log has been saved to:\n  %s\n", getCrashLogPath(log.Timestamp))
		}
		os.Exit(1)
	}
}

func createCrashLog(panicValue any) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		LastQuest:  globalContext.lastQuest,
		LastAction: globalContext.lastAction,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

func writeCrashLog(log CrashLog) error {
	dir := getCrashLogDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create crash log dir: %w", err)
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("encode crash log: %w", err)
	}
	if err := os.WriteFile(getCrashLogPath(log.Timestamp), data, 0644); err != nil {
		return fmt.Errorf("write crash log: %w", err)
	}

	// Retention runs after the write so the newest log always survives.
	if err := cleanOldCrashLogs(dir); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}
	return nil
}

func getCrashLogDir() string {
	globalContext.mu.RLock()
	basePath := globalContext.basePath
	globalContext.mu.RUnlock()

	if basePath == "" {
		basePath = defaultBasePath
	}
	return filepath.Join(basePath, CrashLogDir)
}

func getCrashLogPath(t time.Time) string {
	filename := fmt.Sprintf("crash_%s.json", t.Format("20060102_150405"))
	return filepath.Join(getCrashLogDir(), filename)
}

func isCrashLog(name string) bool {
	return strings.HasPrefix(name, "crash_") && strings.HasSuffix(name, ".json")
}

// cleanOldCrashLogs keeps only the MaxCrashLogs most recent logs. File names
// embed the timestamp, so name order is age order.
func cleanOldCrashLogs(dir string) error {
	logs, err := crashLogNames(dir)
	if err != nil || len(logs) <= MaxCrashLogs {
		return err
	}
	for _, name := range logs[:len(logs)-MaxCrashLogs] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", name, err)
		}
	}
	return nil
}

func crashLogNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isCrashLog(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListCrashLogs returns every crash log path, oldest first.
func ListCrashLogs() ([]string, error) {
	dir := getCrashLogDir()
	names, err := crashLogNames(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(names))
	for _, n := range names {
		paths = append(paths, filepath.Join(dir, n))
	}
	return paths, nil
}

// ReadCrashLog decodes a crash log file.
func ReadCrashLog(path string) (*CrashLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var log CrashLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("decode crash log %s: %w", path, err)
	}
	return &log, nil
}
