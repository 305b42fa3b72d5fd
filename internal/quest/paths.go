package quest

import (
	"path"
	"strings"

	"github.com/josephgoksu/QuestWing/internal/storage"
)

// NormalizeTaskPath turns a linkedTaskFile value into a vault path. Wiki
// links ("[[Projects/plan]]") and extension-less names resolve to markdown
// files; an alias after "|" is dropped.
func NormalizeTaskPath(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.TrimPrefix(p, "[[")
	p = strings.TrimSuffix(p, "]]")
	if i := strings.Index(p, "|"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if path.Ext(p) == "" {
		p += ".md"
	}
	return storage.Clean(p)
}
