package pastes

import (
	"strings"
	"testing"
)

func TestNewIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != IDLength {
			t.Fatalf("unexpected length %d for %q", len(id), id)
		}
		for _, r := range id {
			if !strings.ContainsRune(idAlphabet, r) {
				t.Fatalf("unexpected character %q in %q", r, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id in 100 draws: %q", id)
		}
		seen[id] = true
	}
}
