// Package similarity holds vector similarity helpers.
package similarity

import "math"

// Cosine returns the cosine similarity of a and b.
// Zero vectors, empty vectors and vectors of different length yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Cosine32 is Cosine for float32 embeddings. Accumulation happens in float64.
func Cosine32(a, b []float32) float64 {
	return Cosine(widen(a), widen(b))
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
