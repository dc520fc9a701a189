package faceauth

import "math"

// Scorer computes a similarity score between two vectors.
type Scorer func(a, b []float64) float64

// CosineSimilarity returns dot(a,b)/(|a|*|b|) clamped to [-1, 1].
//
// Empty vectors, mismatched lengths, non-finite components and zero norms
// all yield 0, which is indistinguishable from an orthogonal pair. Callers
// that threshold the result must validate shape first, or use
// compareEmbeddings.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	dotProduct := 0.0
	normA := 0.0
	normB := 0.0
	for i := range a {
		if !isFinite(a[i]) || !isFinite(b[i]) {
			return 0
		}
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(similarity) {
		return 0
	}
	if similarity > 1.0 {
		similarity = 1.0
	}
	if similarity < -1.0 {
		similarity = -1.0
	}
	return similarity
}

// compareEmbeddings scores two validated embeddings and reports
// ErrInvalidVector instead of the 0 sentinel when they cannot be compared.
func compareEmbeddings(a, b Embedding) (float64, error) {
	if a.IsZero() || b.IsZero() || a.Len() != b.Len() {
		return 0, ErrInvalidVector
	}
	return CosineSimilarity(a.values, b.values), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
