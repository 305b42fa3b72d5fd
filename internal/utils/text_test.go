package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Defeat ...", Truncate("Defeat the dragon", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "éé...", Truncate("éééééééé", 5))
}

func TestToTitle(t *testing.T) {
	assert.Equal(t, "", ToTitle(""))
	assert.Equal(t, "In Progress", ToTitle("in-progress"))
	assert.Equal(t, "Technomancer", ToTitle("technomancer"))
	assert.Equal(t, "Quest Completion", ToTitle("quest_completion"))
}
