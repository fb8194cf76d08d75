package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	r1 := NewRNG(42)
	r2 := NewRNG(42)

	assert.Equal(t, r1.FlatUniform(10, 4), r2.FlatUniform(10, 4))
	assert.Equal(t, int64(42), r1.Seed())
}

func TestRNG_Reset(t *testing.T) {
	r := NewRNG(7)

	first := r.FlatUniform(5, 2)
	r.Reset()
	second := r.FlatUniform(5, 2)

	assert.Equal(t, first, second)
}

func TestFillUniformRange(t *testing.T) {
	r := NewRNG(1)

	dst := make([]float64, 1000)
	r.FillUniformRange(dst, -2, 3)

	for _, v := range dst {
		require.GreaterOrEqual(t, v, -2.0)
		require.Less(t, v, 3.0)
	}
}

func TestGaussianBlobs(t *testing.T) {
	r := NewRNG(99)

	centers := []float64{
		0, 0,
		100, 100,
	}
	data := r.GaussianBlobs(centers, 2, 50, 0.5)
	require.Len(t, data, 2*50*2)

	// Every point stays near its own center for a small stddev.
	for c := 0; c < 2; c++ {
		for p := 0; p < 50; p++ {
			vec := data[(c*50+p)*2 : (c*50+p+1)*2]
			for j := 0; j < 2; j++ {
				require.InDelta(t, centers[c*2+j], vec[j], 5.0)
			}
		}
	}
}
