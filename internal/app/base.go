// Package app provides the application layer that orchestrates quest
// actions. It sits between the CLI handlers and the engine packages so every
// surface applies the same transitions and side effects.
package app

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/josephgoksu/QuestWing/internal/character"
	"github.com/josephgoksu/QuestWing/internal/effects"
	"github.com/josephgoksu/QuestWing/internal/ledger"
	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/internal/watch"
)

// StreakMode selects which action advances the daily streak.
type StreakMode string

const (
	StreakOnQuest StreakMode = "quest"
	StreakOnTask  StreakMode = "task"
)

// Context holds shared dependencies for all app services.
type Context struct {
	Repo       *quest.Repository
	Cache      *quest.Cache
	Pending    *watch.PendingSaves
	Characters *character.Store
	// Ledger is optional; completions are not recorded when nil.
	Ledger     *ledger.Ledger
	Effects    *effects.Engine
	StreakMode StreakMode
	Now        func() time.Time
	// Location is the user's zone for calendar-day comparisons.
	Location   *time.Location
	Logger     *slog.Logger
}

// NewContext wires a context with the built-in effects engine, the local
// clock and the default logger. Callers may override any field afterwards.
func NewContext(repo *quest.Repository, cache *quest.Cache, pending *watch.PendingSaves, chars *character.Store) *Context {
	return &Context{
		Repo:       repo,
		Cache:      cache,
		Pending:    pending,
		Characters: chars,
		Effects:    effects.NewEngine(rand.New(rand.NewSource(time.Now().UnixNano()))),
		StreakMode: StreakOnQuest,
		Now:        time.Now,
		Location:   time.Local,
		Logger:     slog.Default(),
	}
}

func (c *Context) now() time.Time {
	t := time.Now()
	if c.Now != nil {
		t = c.Now()
	}
	if c.Location != nil {
		t = t.In(c.Location)
	}
	return t
}

func (c *Context) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
