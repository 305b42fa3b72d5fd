// Package util provides shared utility functions.
package util

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// DefaultShortIDLength is the default number of characters for short IDs.
	DefaultShortIDLength = 16
	// MaxAmbiguousCandidates is the max number of candidates to show in ambiguous error.
	MaxAmbiguousCandidates = 5
)

// Errors returned by ID resolution functions.
var (
	ErrAmbiguousID = errors.New("ambiguous quest reference")
	ErrNotFound    = errors.New("not found")
)

// ShortID returns a shortened version of an ID.
// If n is 0 or negative, DefaultShortIDLength is used.
func ShortID(id string, n int) string {
	if n <= 0 {
		n = DefaultShortIDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// QuestRef is the minimal view of a quest needed for resolution.
type QuestRef struct {
	ID   string
	Name string
}

// ResolveQuestID resolves a quest id, id prefix, or case-insensitive name to
// a single quest id.
//
// Resolution rules:
//  1. An exact id wins.
//  2. An exact name (ignoring case) wins next.
//  3. Otherwise the reference must prefix exactly one id.
//  4. Several matches return ErrAmbiguousID; none returns ErrNotFound.
func ResolveQuestID(refs []QuestRef, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("quest: %w", ErrNotFound)
	}
	for _, r := range refs {
		if r.ID == ref {
			return r.ID, nil
		}
	}

	var byName, byPrefix []string
	lower := strings.ToLower(ref)
	for _, r := range refs {
		if strings.EqualFold(r.Name, ref) {
			byName = append(byName, r.ID)
		}
		if strings.HasPrefix(r.ID, lower) {
			byPrefix = append(byPrefix, r.ID)
		}
	}
	if len(byName) > 0 {
		return resolveFromCandidates(ref, byName)
	}
	return resolveFromCandidates(ref, byPrefix)
}

func resolveFromCandidates(ref string, candidates []string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("quest %q: %w", ref, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		sort.Strings(candidates)
		shown := candidates
		if len(shown) > MaxAmbiguousCandidates {
			shown = shown[:MaxAmbiguousCandidates]
		}
		return "", fmt.Errorf("%w: %q matches %d quests: %v",
			ErrAmbiguousID, ref, len(candidates), shown)
	}
}
