package kmeans

import (
	"math/rand"

	"github.com/hupe1980/kmeans/distance"
)

// Initializer seeds the initial centroid positions from the dataset.
// centroids is point-contiguous with len(centroids)/dim columns; data is
// guaranteed to hold at least that many points.
type Initializer interface {
	Seed(rng *rand.Rand, data []float64, dim int, centroids []float64)
}

// RandomInit picks k distinct points uniformly at random.
type RandomInit struct{}

func (RandomInit) Seed(rng *rand.Rand, data []float64, dim int, centroids []float64) {
	n := len(data) / dim
	k := len(centroids) / dim

	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		copy(centroids[i*dim:(i+1)*dim], data[perm[i]*dim:(perm[i]+1)*dim])
	}
}

// PlusPlusInit implements k-means++ seeding: after a uniform first pick,
// each further centroid is sampled with probability proportional to the
// squared distance to the nearest centroid chosen so far. Seeding always
// uses squared Euclidean distance, independent of the clustering metric.
type PlusPlusInit struct{}

func (PlusPlusInit) Seed(rng *rand.Rand, data []float64, dim int, centroids []float64) {
	n := len(data) / dim
	k := len(centroids) / dim

	first := rng.Intn(n)
	copy(centroids[0:dim], data[first*dim:(first+1)*dim])

	// minDistSq tracks each point's squared distance to its nearest chosen
	// centroid, updated incrementally (O(n) per centroid).
	minDistSq := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		d := distance.SquaredL2(data[i*dim:(i+1)*dim], centroids[0:dim])
		minDistSq[i] = d
		sum += d
	}

	for c := 1; c < k; c++ {
		if sum == 0 {
			// All remaining mass is zero (duplicate-heavy data);
			// fall back to uniform.
			idx := rng.Intn(n)
			copy(centroids[c*dim:(c+1)*dim], data[idx*dim:(idx+1)*dim])
			continue
		}

		target := rng.Float64() * sum
		var cumsum float64
		chosen := 0
		for i, d := range minDistSq {
			cumsum += d
			if cumsum >= target {
				chosen = i
				break
			}
		}
		copy(centroids[c*dim:(c+1)*dim], data[chosen*dim:(chosen+1)*dim])

		sum = 0
		cStart := c * dim
		for i := 0; i < n; i++ {
			d := distance.SquaredL2(data[i*dim:(i+1)*dim], centroids[cStart:cStart+dim])
			if d < minDistSq[i] {
				minDistSq[i] = d
			}
			sum += minDistSq[i]
		}
	}
}
