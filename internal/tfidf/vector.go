package tfidf

import "math"

// Vector is a sparse TF-IDF weighted term vector. Absent terms have
// weight zero. Two vectors are comparable only when produced by the
// same fitted vocabulary.
type Vector map[string]float64

// IsEmpty reports whether the vector has no weighted terms.
func (v Vector) IsEmpty() bool { return len(v) == 0 }

// Magnitude returns the Euclidean norm of the vector.
func (v Vector) Magnitude() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity between two sparse vectors,
// in [0,1] for non-negative weights. Either side empty, or sharing no
// terms, yields 0.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller side: the dot product only needs shared terms.
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	var dot float64
	for term, w := range small {
		if lw, ok := large[term]; ok {
			dot += w * lw
		}
	}
	if dot == 0 {
		return 0
	}

	magA := a.Magnitude()
	magB := b.Magnitude()
	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (magA * magB)
}
