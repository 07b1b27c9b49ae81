// Package index holds the built semantic index as a domain value.
package index

import (
	"time"

	"github.com/railvoy/railvoy/internal/tfidf"
)

// Snapshot is one fully built index generation: the fitted vectorizer state
// plus every item's term vector. Snapshots are immutable once built and are
// replaced wholesale, never patched.
type Snapshot struct {
	State   tfidf.State
	Vectors map[string]tfidf.Vector
	BuiltAt time.Time
}

// ItemCount returns the number of indexed items.
func (s Snapshot) ItemCount() int { return len(s.Vectors) }
