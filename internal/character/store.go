// Package character persists the player's progression state as a YAML
// document inside the vault.
package character

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/josephgoksu/QuestWing/internal/effects"
	"github.com/josephgoksu/QuestWing/internal/progression"
	"github.com/josephgoksu/QuestWing/internal/storage"
	"github.com/josephgoksu/QuestWing/models"
	yaml "gopkg.in/yaml.v3"
)

// DefaultFile is the character file path relative to the vault root.
const DefaultFile = ".questwing/character.yaml"

// Defaults for a character created on first run.
const (
	DefaultName  = "Adventurer"
	DefaultClass = "warrior"
)

// Store reads and writes one character file.
type Store struct {
	store storage.Storage
	file  string

	// Name, Class and Mode seed the character created when the file is
	// missing.
	Name  string
	Class string
	Mode  models.ProgressionMode
}

// NewStore returns a store for file. An empty file selects DefaultFile.
func NewStore(store storage.Storage, file string) *Store {
	if strings.TrimSpace(file) == "" {
		file = DefaultFile
	}
	return &Store{store: store, file: storage.Clean(file), Name: DefaultName, Class: DefaultClass}
}

// File returns the vault path of the character document.
func (s *Store) File() string { return s.file }

// Load reads the character. A missing file yields a fresh level-one
// character; the boolean reports whether the file existed.
func (s *Store) Load() (*models.Character, bool, error) {
	raw, err := s.store.ReadFile(s.file)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			ch := models.NewCharacter(s.seedName(), s.seedClass())
			if s.Mode == models.ModeTraining {
				ch.Mode = models.ModeTraining
			}
			effects.EnsureAchievements(ch)
			return ch, false, nil
		}
		return nil, false, err
	}
	var ch models.Character
	if err := yaml.Unmarshal([]byte(raw), &ch); err != nil {
		return nil, true, fmt.Errorf("parse character %s: %w", s.file, err)
	}
	ch.Normalize()
	if ch.Name == "" {
		ch.Name = DefaultName
	}
	if _, ok := progression.LookupClass(ch.Class); !ok {
		return nil, true, fmt.Errorf("character %s: %w: %q", s.file, progression.ErrUnknownClass, ch.Class)
	}
	ch.Class = strings.ToLower(strings.TrimSpace(ch.Class))
	effects.EnsureAchievements(&ch)
	return &ch, true, nil
}

func (s *Store) seedName() string {
	if strings.TrimSpace(s.Name) == "" {
		return DefaultName
	}
	return s.Name
}

func (s *Store) seedClass() string {
	if c, ok := progression.LookupClass(s.Class); ok {
		return c.ID
	}
	return DefaultClass
}

// Save writes the character, creating the parent folder when needed.
func (s *Store) Save(ch *models.Character) error {
	data, err := yaml.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encode character: %w", err)
	}
	if dir := path.Dir(s.file); dir != "." {
		if err := s.store.MkdirAll(dir); err != nil {
			return err
		}
	}
	return s.store.WriteFile(s.file, string(data))
}
