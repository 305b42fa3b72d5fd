package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/QuestWing/internal/app"
	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/models"
)

func TestBoardModel_LoadThenChanges(t *testing.T) {
	cache := quest.NewCache()
	changes, stop := WatchCache(cache)
	defer stop()

	loaded := false
	m := NewBoardModel(cache, changes, func() error {
		loaded = true
		cache.Replace([]*models.Quest{manual("slay-dragon", "Slay the Dragon", models.StatusActive, 0)})
		return nil
	})
	assert.Contains(t, m.View(), "Loading quests")
	require.NotNil(t, m.Init())

	msg := runLoad(m.load)()
	assert.True(t, loaded)
	next, _ := m.Update(msg)
	m = next.(BoardModel)
	assert.Contains(t, m.View(), "Slay the Dragon")

	q := manual("slay-dragon", "Slay the Dragon", models.StatusCompleted, 0)
	cache.Put(q)

	var change quest.Change
	select {
	case change = <-changes:
		if change.Kind == quest.ChangeReloaded {
			change = <-changes
		}
	case <-time.After(time.Second):
		t.Fatal("expected a cache change")
	}
	next, cmd := m.Update(changeMsg(change))
	m = next.(BoardModel)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Completed (1)")
	assert.Contains(t, m.View(), "slay-dragon upserted")
}

func TestBoardModel_Quit(t *testing.T) {
	m := NewBoardModel(quest.NewCache(), nil, nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, next.(BoardModel).Quitting)
	assert.Empty(t, next.(BoardModel).View())
}

type recordingActions struct {
	calls []string
	fail  bool
}

func (r *recordingActions) MoveQuest(id string, to models.QuestStatus) (*app.ActionResult, error) {
	r.calls = append(r.calls, id+" "+string(to))
	if r.fail {
		return &app.ActionResult{Success: false, Message: "Cannot move " + id}, nil
	}
	return &app.ActionResult{Success: true, Message: "Moved " + id, Notices: []string{"+50 XP"}}, nil
}

func (r *recordingActions) CompleteNextTask(id string) (*app.ActionResult, error) {
	r.calls = append(r.calls, id+" task")
	return &app.ActionResult{Success: true, Message: "[x] warm up"}, nil
}

func press(t *testing.T, m BoardModel, key string) (BoardModel, tea.Cmd) {
	t.Helper()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	}
	next, cmd := m.Update(msg)
	return next.(BoardModel), cmd
}

func TestBoardModel_Actions(t *testing.T) {
	cache := quest.NewCache()
	cache.Replace([]*models.Quest{
		manual("forge", "Forge a Sword", models.StatusAvailable, 1),
		manual("scout", "Scout the Pass", models.StatusActive, 1),
	})
	acts := &recordingActions{}
	m := NewBoardModel(cache, nil, nil).WithActions(acts)
	assert.Contains(t, m.View(), "▸ Forge a Sword")

	m, cmd := press(t, m, "right")
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(BoardModel)
	assert.Equal(t, []string{"forge active"}, acts.calls)
	assert.Contains(t, m.View(), "Moved forge · +50 XP")

	m, _ = press(t, m, "down")
	assert.Contains(t, m.View(), "▸ Scout the Pass")

	m, cmd = press(t, m, "c")
	m.Update(cmd())
	m, cmd = press(t, m, "t")
	m.Update(cmd())
	assert.Equal(t, []string{"forge active", "scout completed", "scout task"}, acts.calls)

	acts.fail = true
	m, cmd = press(t, m, "c")
	next, _ = m.Update(cmd())
	assert.Contains(t, next.(BoardModel).View(), "Cannot move scout")
}

func TestBoardModel_NoActionsIsReadOnly(t *testing.T) {
	cache := quest.NewCache()
	cache.Replace([]*models.Quest{manual("forge", "Forge a Sword", models.StatusAvailable, 1)})
	m := NewBoardModel(cache, nil, nil)

	for _, key := range []string{"c", "t", "right"} {
		var cmd tea.Cmd
		m, cmd = press(t, m, key)
		assert.Nil(t, cmd, key)
	}
	assert.Contains(t, m.View(), "q to quit")
}
