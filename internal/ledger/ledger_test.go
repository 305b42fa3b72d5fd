package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "state", DefaultFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := setupLedger(t)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i, e := range []Entry{
		{QuestID: "run-5k", QuestName: "Run 5k", Category: "Fitness", XP: 115, Stat: "strength"},
		{QuestID: "ship-cli", QuestName: "Ship CLI", Category: "coding", XP: 230, Stat: "intelligence"},
		{QuestID: "lift", QuestName: "Lift", Category: "fitness ", XP: 50, Stat: "strength"},
	} {
		e.CompletedAt = base.Add(time.Duration(i) * time.Hour)
		id, err := l.Record(e)
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	recent, err := l.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "lift", recent[0].QuestID)
	assert.Equal(t, "ship-cli", recent[1].QuestID)
	assert.True(t, base.Add(2*time.Hour).Equal(recent[0].CompletedAt))

	all, err := l.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	counts, err := l.CategoryCounts()
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, CategoryCount{Category: "fitness", Count: 2, XP: 165}, counts[0])
	assert.Equal(t, CategoryCount{Category: "coding", Count: 1, XP: 230}, counts[1])

	total, err := l.TotalXP()
	require.NoError(t, err)
	assert.Equal(t, 395, total)

	done, err := l.HasCompleted("ship-cli")
	require.NoError(t, err)
	assert.True(t, done)
	done, err = l.HasCompleted("nope")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestRecord_RequiresQuestID(t *testing.T) {
	l := setupLedger(t)
	_, err := l.Record(Entry{Category: "x"})
	assert.Error(t, err)
}

func TestOpen_InMemory(t *testing.T) {
	l, err := Open(":memory:")
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Record(Entry{QuestID: "q"})
	require.NoError(t, err)
	total, err := l.TotalXP()
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	l, err := Open(path)
	require.NoError(t, err)
	_, err = l.Record(Entry{QuestID: "q", XP: 10})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	total, err := l.TotalXP()
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}
