package util

import (
	"errors"
	"strings"
	"testing"
)

func TestShortID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		n    int
		want string
	}{
		{name: "default length truncates", id: "defeat-the-procrastination-dragon", n: 0, want: "defeat-the-procr"},
		{name: "negative uses default", id: "defeat-the-procrastination-dragon", n: -1, want: "defeat-the-procr"},
		{name: "explicit length", id: "slay-dragon", n: 4, want: "slay"},
		{name: "shorter than limit", id: "slay", n: 8, want: "slay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortID(tt.id, tt.n); got != tt.want {
				t.Errorf("ShortID(%q, %d) = %q, want %q", tt.id, tt.n, got, tt.want)
			}
		})
	}
}

var refs = []QuestRef{
	{ID: "slay-dragon", Name: "Slay the Dragon"},
	{ID: "slay-goblins", Name: "Slay Goblins"},
	{ID: "brew-potion", Name: "Brew a Potion"},
	{ID: "sl", Name: "Short"},
}

func TestResolveQuestID(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{name: "exact id", ref: "slay-dragon", want: "slay-dragon"},
		{name: "exact id beats prefix", ref: "sl", want: "sl"},
		{name: "name ignoring case", ref: "brew a potion", want: "brew-potion"},
		{name: "unique prefix", ref: "brew", want: "brew-potion"},
		{name: "prefix is lowercased", ref: "BREW", want: "brew-potion"},
		{name: "ambiguous prefix", ref: "slay", wantErr: ErrAmbiguousID},
		{name: "no match", ref: "rescue", wantErr: ErrNotFound},
		{name: "empty", ref: "  ", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveQuestID(refs, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveQuestID_AmbiguousListsCandidates(t *testing.T) {
	_, err := ResolveQuestID(refs, "slay-")
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	for _, id := range []string{"slay-dragon", "slay-goblins"} {
		if !strings.Contains(err.Error(), id) {
			t.Errorf("expected %s in %q", id, err.Error())
		}
	}
}
