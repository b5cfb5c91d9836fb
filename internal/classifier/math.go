package classifier

import (
	"errors"
	"math"
)

// Argmax returns the index of the largest value, or -1 for an empty slice.
func Argmax(values []float32) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// CosineSimilarity computes the cosine similarity of two equal-length
// vectors. Zero-norm vectors yield 0.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.New("vectors must have the same dimension")
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
