package embedder

import "math"

// reports whether the batch result is fully usable: non-empty, every
// vector non-empty and finite, and all vectors the same dimension
func Validate(vectors [][]float32) bool {
	if len(vectors) == 0 {
		return false
	}

	dim := len(vectors[0])
	if dim == 0 {
		return false
	}

	for _, vector := range vectors {
		if len(vector) != dim {
			return false
		}

		for _, value := range vector {
			if math.IsNaN(float64(value)) || math.IsInf(float64(value), 0) {
				return false
			}
		}
	}

	return true
}

// counts vectors with at least one component, the usable share of a
// degraded batch result
func Coverage(vectors [][]float32) int {
	covered := 0
	for _, vector := range vectors {
		if len(vector) > 0 {
			covered++
		}
	}

	return covered
}
