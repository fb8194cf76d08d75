package kmeans

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// containsPoint reports whether centroid equals one of the dataset points.
func containsPoint(data []float64, dim int, centroid []float64) bool {
	n := len(data) / dim
	for i := 0; i < n; i++ {
		match := true
		for j := 0; j < dim; j++ {
			if data[i*dim+j] != centroid[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestRandomInit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	data := []float64{
		0, 0,
		1, 1,
		2, 2,
		3, 3,
		4, 4,
	}

	centroids := make([]float64, 3*2)
	RandomInit{}.Seed(rng, data, 2, centroids)

	seen := map[[2]float64]bool{}
	for i := 0; i < 3; i++ {
		c := centroids[i*2 : (i+1)*2]
		assert.True(t, containsPoint(data, 2, c), "centroid %d is not a data point", i)
		seen[[2]float64{c[0], c[1]}] = true
	}

	// Permutation-based seeding never picks the same point twice.
	assert.Len(t, seen, 3)
}

func TestPlusPlusInit(t *testing.T) {
	t.Run("Separated duplicates", func(t *testing.T) {
		// Two point masses: after the first pick, all D^2 mass sits on the
		// other group, so the second centroid must come from it.
		data := []float64{
			0, 0,
			0, 0,
			0, 0,
			10, 10,
			10, 10,
			10, 10,
		}

		for seed := int64(0); seed < 10; seed++ {
			rng := rand.New(rand.NewSource(seed))
			centroids := make([]float64, 2*2)
			PlusPlusInit{}.Seed(rng, data, 2, centroids)

			require.NotEqual(t, centroids[0:2], centroids[2:4], "seed %d", seed)
			assert.True(t, containsPoint(data, 2, centroids[0:2]))
			assert.True(t, containsPoint(data, 2, centroids[2:4]))
		}
	})

	t.Run("All points identical", func(t *testing.T) {
		data := []float64{7, 7, 7, 7, 7, 7}

		rng := rand.New(rand.NewSource(1))
		centroids := make([]float64, 2*2)
		PlusPlusInit{}.Seed(rng, data, 2, centroids)

		// Zero total mass falls back to uniform picks.
		assert.Equal(t, []float64{7, 7, 7, 7}, centroids)
	})

	t.Run("Centroids are data points", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))

		data := make([]float64, 50*4)
		for i := range data {
			data[i] = rng.Float64()
		}

		centroids := make([]float64, 5*4)
		PlusPlusInit{}.Seed(rng, data, 4, centroids)

		for i := 0; i < 5; i++ {
			assert.True(t, containsPoint(data, 4, centroids[i*4:(i+1)*4]), "centroid %d", i)
		}
	})
}
