package tfidf

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Default fitting parameters.
const (
	DefaultMaxVocab      = 600
	DefaultMinDF         = 2
	DefaultMaxDFFraction = 0.8
)

// Vectorizer builds TF-IDF vectors over a bounded vocabulary.
// Fit replaces the fitted state wholesale; it is never updated
// incrementally.
type Vectorizer struct {
	maxVocab      int
	minDF         int
	maxDFFraction float64

	state State
}

// State is the serializable result of fitting: the vocabulary with
// stable indices, per-term IDF weights, and the corpus size. It
// round-trips losslessly through JSON.
type State struct {
	Vocab    map[string]int     `json:"vocab"`
	IDF      map[string]float64 `json:"idf"`
	DocCount int                `json:"doc_count"`
}

// NewVectorizer validates fitting parameters and creates a vectorizer.
func NewVectorizer(maxVocab, minDF int, maxDFFraction float64) (*Vectorizer, error) {
	if maxVocab <= 0 {
		return nil, fmt.Errorf("max vocabulary must be positive, got %d", maxVocab)
	}
	if minDF < 1 {
		return nil, fmt.Errorf("min document frequency must be at least 1, got %d", minDF)
	}
	if maxDFFraction <= 0 || maxDFFraction > 1 {
		return nil, fmt.Errorf("max document frequency fraction must be in (0,1], got %g", maxDFFraction)
	}
	return &Vectorizer{
		maxVocab:      maxVocab,
		minDF:         minDF,
		maxDFFraction: maxDFFraction,
	}, nil
}

// Restore creates a vectorizer from previously persisted state.
func Restore(state State) *Vectorizer {
	return &Vectorizer{
		maxVocab:      DefaultMaxVocab,
		minDF:         DefaultMinDF,
		maxDFFraction: DefaultMaxDFFraction,
		state:         state,
	}
}

// Fit builds the vocabulary and IDF table from the corpus and returns
// the resulting state. Terms appearing in fewer than minDF documents
// or in more than maxDFFraction of them are excluded; of the rest, the
// maxVocab most frequent are kept. An empty corpus yields an empty
// vocabulary, not an error.
func (v *Vectorizer) Fit(docs []string) State {
	n := len(docs)
	v.state = State{
		Vocab:    map[string]int{},
		IDF:      map[string]float64{},
		DocCount: n,
	}
	if n == 0 {
		return v.state
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range Tokenize(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	maxDF := v.maxDFFraction * float64(n)
	type termFreq struct {
		term string
		df   int
	}
	kept := make([]termFreq, 0, len(df))
	for term, freq := range df {
		if freq >= v.minDF && float64(freq) <= maxDF {
			kept = append(kept, termFreq{term, freq})
		}
	}

	// Most frequent first; ties by term so indices are reproducible.
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].df != kept[j].df {
			return kept[i].df > kept[j].df
		}
		return kept[i].term < kept[j].term
	})
	if len(kept) > v.maxVocab {
		kept = kept[:v.maxVocab]
	}

	for i, tf := range kept {
		v.state.Vocab[tf.term] = i
		v.state.IDF[tf.term] = math.Log(float64(n+1)/float64(tf.df+1)) + 1
	}

	return v.state
}

// Transform converts text into a sparse TF-IDF vector over the fitted
// vocabulary, using sublinear term-frequency scaling. Text sharing no
// vocabulary terms yields an empty vector.
func (v *Vectorizer) Transform(text string) Vector {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Vector{}
	}

	tf := make(map[string]int, len(tokens))
	maxTF := 0
	for _, t := range tokens {
		tf[t]++
		if tf[t] > maxTF {
			maxTF = tf[t]
		}
	}

	vec := Vector{}
	for term, count := range tf {
		idf, ok := v.state.IDF[term]
		if !ok {
			continue
		}
		tfNorm := 0.5 + 0.5*(float64(count)/float64(maxTF))
		vec[term] = tfNorm * idf
	}
	return vec
}

// State returns the current fitted state.
func (v *Vectorizer) State() State { return v.state }

// VocabSize returns the number of terms in the fitted vocabulary.
func (v *Vectorizer) VocabSize() int { return len(v.state.Vocab) }

// MarshalState serializes fitted state for persistence.
func MarshalState(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal vectorizer state: %w", err)
	}
	return data, nil
}

// UnmarshalState restores fitted state from its persisted form.
func UnmarshalState(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("unmarshal vectorizer state: %w", err)
	}
	if s.Vocab == nil {
		s.Vocab = map[string]int{}
	}
	if s.IDF == nil {
		s.IDF = map[string]float64{}
	}
	return s, nil
}
