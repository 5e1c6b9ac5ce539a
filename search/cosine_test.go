package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSymmetric(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-2, 0.5, 4}
	assert.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosineIdenticalVectors(t *testing.T) {
	a := []float32{3, 4}
	assert.InDelta(t, 1.0, Cosine(a, a), 1e-9)
}

func TestCosineDegenerateCasesScoreZero(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(nil, []float32{1}))
	assert.Equal(t, 0.0, Cosine([]float32{1}, nil))
	assert.Equal(t, 0.0, Cosine([]float32{}, []float32{}))
	assert.Equal(t, 0.0, Cosine([]float32{1, 2}, []float32{1}))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 2}))
}

func TestCosineOrthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosineOpposite(t *testing.T) {
	assert.InDelta(t, -1.0, Cosine([]float32{1, 1}, []float32{-1, -1}), 1e-9)
}
