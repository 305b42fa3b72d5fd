package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/QuestWing/internal/app"
	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/models"
)

// WatchCache forwards cache changes to a channel for the live board. Sends
// never block the mutating goroutine; bursts beyond the buffer are dropped
// since the board redraws from a fresh snapshot anyway. Call stop to
// unsubscribe.
func WatchCache(cache *quest.Cache) (changes <-chan quest.Change, stop func()) {
	ch := make(chan quest.Change, 64)
	unsub := cache.Subscribe(func(c quest.Change) {
		select {
		case ch <- c:
		default:
		}
	})
	return ch, unsub
}

// BoardActions are the mutations the live board can trigger on the selected
// quest. *app.QuestApp satisfies it.
type BoardActions interface {
	MoveQuest(id string, to models.QuestStatus) (*app.ActionResult, error)
	CompleteNextTask(id string) (*app.ActionResult, error)
}

type loadedMsg struct{ err error }

type changeMsg quest.Change

type actionMsg struct {
	res *app.ActionResult
	err error
}

// BoardModel is the bubbletea model behind `board --live`.
type BoardModel struct {
	cache   *quest.Cache
	load    func() error
	changes <-chan quest.Change
	actions BoardActions
	spinner spinner.Model

	loading    bool
	err        error
	items      []BoardItem
	selected   string
	width      int
	lastChange string
	status     string
	statusErr  bool
	Quitting   bool
}

// NewBoardModel builds a live board. load runs once in the background to
// populate the cache; changes usually comes from WatchCache.
func NewBoardModel(cache *quest.Cache, changes <-chan quest.Change, load func() error) BoardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorPrimary)
	m := BoardModel{
		cache:   cache,
		load:    load,
		changes: changes,
		spinner: s,
		loading: load != nil,
	}
	m.refresh()
	return m
}

// WithActions enables the move, complete and task keys.
func (m BoardModel) WithActions(a BoardActions) BoardModel {
	m.actions = a
	return m
}

// refresh re-reads the cache and keeps the selection on the same quest when
// it still exists.
func (m *BoardModel) refresh() {
	m.items = BoardItems(m.cache)
	if m.indexOf(m.selected) >= 0 {
		return
	}
	m.selected = ""
	if len(m.items) > 0 {
		m.selected = m.items[0].Quest.QuestID
	}
}

func (m BoardModel) indexOf(id string) int {
	for i, it := range m.items {
		if it.Quest.QuestID == id {
			return i
		}
	}
	return -1
}

func (m *BoardModel) step(delta int) {
	if len(m.items) == 0 {
		return
	}
	i := max(0, m.indexOf(m.selected)) + delta
	i = max(0, min(len(m.items)-1, i))
	m.selected = m.items[i].Quest.QuestID
}

// shift returns the status next to the selected quest's, or "" at either end.
func (m BoardModel) shift(delta int) models.QuestStatus {
	i := m.indexOf(m.selected)
	if i < 0 {
		return ""
	}
	cur := m.items[i].Quest.Status
	for n, st := range models.Statuses {
		if st == cur {
			if next := n + delta; next >= 0 && next < len(models.Statuses) {
				return models.Statuses[next]
			}
		}
	}
	return ""
}

func (m BoardModel) act(run func(id string) (*app.ActionResult, error)) tea.Cmd {
	if m.actions == nil || m.selected == "" {
		return nil
	}
	id := m.selected
	return func() tea.Msg {
		res, err := run(id)
		return actionMsg{res: res, err: err}
	}
}

func (m BoardModel) moveTo(to models.QuestStatus) tea.Cmd {
	if to == "" || m.actions == nil {
		return nil
	}
	return m.act(func(id string) (*app.ActionResult, error) {
		return m.actions.MoveQuest(id, to)
	})
}

func (m BoardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(m.changes)}
	if m.loading {
		cmds = append(cmds, m.spinner.Tick, runLoad(m.load))
	}
	return tea.Batch(cmds...)
}

func runLoad(load func() error) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: load()}
	}
}

func waitForChange(changes <-chan quest.Change) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-changes
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		case "up", "k":
			m.step(-1)
		case "down", "j":
			m.step(1)
		case "right", "l":
			return m, m.moveTo(m.shift(1))
		case "left", "h":
			return m, m.moveTo(m.shift(-1))
		case "c":
			return m, m.moveTo(models.StatusCompleted)
		case "t", " ":
			if m.actions == nil {
				return m, nil
			}
			return m, m.act(m.actions.CompleteNextTask)
		}
	case actionMsg:
		switch {
		case msg.err != nil:
			m.status, m.statusErr = msg.err.Error(), true
		case msg.res != nil:
			m.status, m.statusErr = msg.res.Message, !msg.res.Success
			if len(msg.res.Notices) > 0 {
				m.status += " · " + strings.Join(msg.res.Notices, " · ")
			}
		}
		m.refresh()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		m.refresh()
	case changeMsg:
		m.refresh()
		if msg.QuestID != "" {
			m.lastChange = fmt.Sprintf("%s %s", msg.QuestID, msg.Kind)
		} else {
			m.lastChange = msg.Kind.String()
		}
		return m, waitForChange(m.changes)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BoardModel) View() string {
	if m.Quitting {
		return ""
	}
	if m.loading {
		return fmt.Sprintf("\n %s Loading quests...\n", m.spinner.View())
	}

	var sb strings.Builder
	sb.WriteString(StyleHeader.Render("QuestWing") + StyleSubtle.Render(fmt.Sprintf("%d quests", len(m.items))) + "\n")
	if m.err != nil {
		sb.WriteString(StyleError.Render("Load failed: "+m.err.Error()) + "\n")
	}
	colWidth := 0
	if m.width > 0 {
		colWidth = max(16, m.width/4-4)
	}
	sb.WriteString(renderBoard(m.items, colWidth, m.selected) + "\n")

	if m.status != "" {
		style := StyleSuccess
		if m.statusErr {
			style = StyleError
		}
		sb.WriteString(style.Render(m.status) + "\n")
	}
	footer := "q to quit"
	if m.actions != nil {
		footer = "↑/↓ select · ←/→ move · c complete · t next task · q quit"
	}
	if m.lastChange != "" {
		footer += " · last change: " + m.lastChange
	}
	sb.WriteString(StyleSubtle.Render(footer) + "\n")
	return sb.String()
}
