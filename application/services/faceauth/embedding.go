package faceauth

import (
	"fmt"
	"math"
)

// DefaultDimensionality is the length of the vectors produced by the client-side face model.
const DefaultDimensionality = 128

// Embedding is a validated face feature vector. The zero value is empty and
// never passes validation, so every usable Embedding comes from NewEmbedding.
type Embedding struct {
	values []float64
}

// NewEmbedding copies values after checking the length and that every
// component is finite.
func NewEmbedding(values []float64, dimensionality int) (Embedding, error) {
	if len(values) == 0 {
		return Embedding{}, fmt.Errorf("embedding is empty")
	}
	if len(values) != dimensionality {
		return Embedding{}, fmt.Errorf("embedding has %d components, expected %d", len(values), dimensionality)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Embedding{}, fmt.Errorf("embedding component %d is not a finite number", i)
		}
	}
	copied := make([]float64, len(values))
	copy(copied, values)
	return Embedding{values: copied}, nil
}

// Len returns the number of components.
func (e Embedding) Len() int {
	return len(e.values)
}

// Values returns a copy of the components, safe to persist or mutate.
func (e Embedding) Values() []float64 {
	out := make([]float64, len(e.values))
	copy(out, e.values)
	return out
}

// IsZero reports whether e was never validated.
func (e Embedding) IsZero() bool {
	return len(e.values) == 0
}
