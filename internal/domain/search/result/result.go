// Package result defines the scored output of a recommendation query.
package result

import "github.com/railvoy/railvoy/internal/domain/catalog"

// MaxReasons caps the explanation list per result.
const MaxReasons = 6

// Scored pairs a catalogue item with its normalized match score and an
// ordered list of human-readable reasons.
type Scored struct {
	item       catalog.Item
	score      float64
	similarity float64
	reasons    []string
}

// New creates a scored result. Reasons arrive ordered by contribution;
// duplicates are dropped and the list is capped at MaxReasons.
func New(item catalog.Item, score, similarity float64, reasons []string) Scored {
	seen := make(map[string]struct{}, len(reasons))
	kept := make([]string, 0, min(len(reasons), MaxReasons))
	for _, r := range reasons {
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		kept = append(kept, r)
		if len(kept) == MaxReasons {
			break
		}
	}
	return Scored{item: item, score: score, similarity: similarity, reasons: kept}
}

// Item returns the catalogue item.
func (s *Scored) Item() catalog.Item { return s.item }

// Score returns the normalized match score in [0, 100].
func (s *Scored) Score() float64 { return s.score }

// Similarity returns the semantic similarity used during scoring, 0 when
// the item was not retrieved semantically.
func (s *Scored) Similarity() float64 { return s.similarity }

// Reasons returns the match explanations, strongest first.
func (s *Scored) Reasons() []string { return s.reasons }
