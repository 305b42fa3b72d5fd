// Package codec maps quests to and from their on-disk text form: markdown
// with frontmatter for manual quests and JSON for generated quests.
package codec

import (
	"fmt"
	"path"
	"strings"

	"github.com/josephgoksu/QuestWing/models"
)

// File extensions recognized as quest files.
const (
	ExtMarkdown = ".md"
	ExtJSON     = ".json"
)

// IsQuestFile reports whether the path has an extension the codec understands.
func IsQuestFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ExtMarkdown, ExtJSON:
		return true
	}
	return false
}

// Decode picks the decoder by file extension.
func Decode(content, filePath string) (*models.Quest, error) {
	switch strings.ToLower(path.Ext(filePath)) {
	case ExtMarkdown:
		return DecodeManual(content, filePath)
	case ExtJSON:
		return DecodeGenerated(content, filePath)
	default:
		return nil, fmt.Errorf("decode %s: unsupported extension", filePath)
	}
}

// Encode picks the encoder by quest variant.
func Encode(q *models.Quest) (string, error) {
	switch q.Kind {
	case models.KindManual:
		return EncodeManual(q)
	case models.KindGenerated:
		return EncodeGenerated(q)
	default:
		return "", fmt.Errorf("encode %s: unknown quest kind", q.QuestID)
	}
}

// Extension returns the file extension used for the quest's variant.
func Extension(q *models.Quest) string {
	if q.Kind == models.KindGenerated {
		return ExtJSON
	}
	return ExtMarkdown
}

// IDFromPath derives the cache key a file maps to when its content cannot
// be read: the basename without extension.
func IDFromPath(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
