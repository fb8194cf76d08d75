package lloyd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeans/distance"
	"github.com/hupe1980/kmeans/testutil"
)

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		k, err := New([]float64{0, 0, 1, 1}, 2, distance.SquaredEuclidean{})
		require.NoError(t, err)
		assert.Equal(t, 2, k.Len())
		assert.Equal(t, 2, k.Dim())
	})

	t.Run("Invalid dimension", func(t *testing.T) {
		_, err := New([]float64{0, 0}, 0, distance.SquaredEuclidean{})
		assert.ErrorIs(t, err, ErrInvalidDimension)
	})

	t.Run("Data length mismatch", func(t *testing.T) {
		_, err := New([]float64{0, 0, 1}, 2, distance.SquaredEuclidean{})
		assert.ErrorIs(t, err, ErrDataLength)
	})

	t.Run("Nil distance", func(t *testing.T) {
		_, err := New([]float64{0, 0}, 2, nil)
		assert.ErrorIs(t, err, ErrNilDistance)
	})
}

// Two tight groups in the plane; one step must move each centroid to its
// group mean and shift by 0.5 + 0.5.
func TestIterate(t *testing.T) {
	data := []float64{
		0, 0,
		0, 1,
		5, 5,
		5, 6,
	}
	centroids := []float64{
		0, 0,
		5, 5,
	}

	kernel, err := New(data, 2, distance.SquaredEuclidean{})
	require.NoError(t, err)

	newCentroids, counts, shift := kernel.Iterate(centroids)

	assert.Equal(t, []int{2, 2}, counts)
	assert.InDelta(t, 0.0, newCentroids[0], 1e-12)
	assert.InDelta(t, 0.5, newCentroids[1], 1e-12)
	assert.InDelta(t, 5.0, newCentroids[2], 1e-12)
	assert.InDelta(t, 5.5, newCentroids[3], 1e-12)
	assert.InDelta(t, 1.0, shift, 1e-12)

	// Input centroids must not be touched.
	assert.Equal(t, []float64{0, 0, 5, 5}, centroids)

	assert.Equal(t, int64(2*4), kernel.DistanceCalculations())
}

func TestIterate_CountsSumToN(t *testing.T) {
	rng := testutil.NewRNG(42)

	const (
		n   = 1234
		dim = 8
		k   = 7
	)

	data := rng.FlatUniform(n, dim)
	centroids := rng.FlatUniform(k, dim)

	kernel, err := New(data, dim, distance.SquaredEuclidean{})
	require.NoError(t, err)

	_, counts, _ := kernel.Iterate(centroids)

	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, n, total)
}

// Every assignment must minimize the squared distance among all centroids,
// checked against a brute-force all-pairs reference.
func TestAssignments_MatchesBruteForce(t *testing.T) {
	rng := testutil.NewRNG(7)

	const (
		n   = 500
		dim = 6
		k   = 9
	)

	data := rng.FlatUniform(n, dim)
	centroids := rng.FlatUniform(k, dim)

	kernel, err := New(data, dim, distance.SquaredEuclidean{}, func(o *Options) {
		o.GrainSize = 50
	})
	require.NoError(t, err)

	assignments := kernel.Assignments(centroids)
	require.Len(t, assignments, n)

	for i := 0; i < n; i++ {
		point := data[i*dim : (i+1)*dim]
		got := distance.SquaredL2(point, centroids[assignments[i]*dim:(assignments[i]+1)*dim])

		for j := 0; j < k; j++ {
			ref := distance.SquaredL2(point, centroids[j*dim:(j+1)*dim])
			require.LessOrEqual(t, got, ref+1e-9, "point %d: cluster %d beats assigned %d", i, j, assignments[i])
		}
	}
}

// Equidistant centroids: the lower index must win, at any worker count.
func TestIterate_TieBreak(t *testing.T) {
	// Every point sits exactly between the two centroids.
	const n = 400
	data := make([]float64, n*2)
	for i := 0; i < n; i++ {
		data[i*2] = 1
		data[i*2+1] = float64(i)
	}

	// Centroid 0 at x=0, centroid 1 at x=2; every point sits at x=1.
	centroids := []float64{
		0, 0,
		2, 0,
	}

	for _, workers := range []int{1, 2, 4, 8} {
		kernel, err := New(data, 2, distance.SquaredEuclidean{}, func(o *Options) {
			o.MaxWorkers = workers
			o.GrainSize = 10
		})
		require.NoError(t, err)

		assignments := kernel.Assignments(centroids)
		for i, a := range assignments {
			require.Equal(t, 0, a, "workers=%d point=%d", workers, i)
		}
	}
}

// Results with one worker and with many must agree within floating tolerance.
func TestIterate_WorkerCountInvariance(t *testing.T) {
	rng := testutil.NewRNG(1337)

	const (
		n   = 2000
		dim = 16
		k   = 12
	)

	data := rng.FlatUniform(n, dim)
	centroids := rng.FlatUniform(k, dim)

	single, err := New(data, dim, distance.SquaredEuclidean{}, func(o *Options) {
		o.MaxWorkers = 1
	})
	require.NoError(t, err)

	multi, err := New(data, dim, distance.SquaredEuclidean{}, func(o *Options) {
		o.MaxWorkers = 8
		o.GrainSize = 100
	})
	require.NoError(t, err)

	c1, counts1, shift1 := single.Iterate(centroids)
	c2, counts2, shift2 := multi.Iterate(centroids)

	assert.Equal(t, counts1, counts2)
	assert.InDelta(t, shift1, shift2, 1e-9*math.Abs(shift1)+1e-12)

	for i := range c1 {
		require.InDelta(t, c1[i], c2[i], 1e-9*math.Abs(c1[i])+1e-12, "index %d", i)
	}
}

// If the centroids already equal the per-cluster means, another step must
// not move them.
func TestIterate_IdempotentAtFixedPoint(t *testing.T) {
	data := []float64{
		0, 0,
		0, 1,
		5, 5,
		5, 6,
	}
	fixedPoint := []float64{
		0, 0.5,
		5, 5.5,
	}

	kernel, err := New(data, 2, distance.SquaredEuclidean{})
	require.NoError(t, err)

	newCentroids, counts, shift := kernel.Iterate(fixedPoint)

	assert.Equal(t, []int{2, 2}, counts)
	assert.InDelta(t, 0.0, shift, 1e-12)
	for i := range fixedPoint {
		assert.InDelta(t, fixedPoint[i], newCentroids[i], 1e-12)
	}
}

func TestIterate_EmptyCluster(t *testing.T) {
	data := []float64{
		0, 0,
		0, 1,
	}
	// Centroid 1 is far away from everything and receives no points.
	centroids := []float64{
		0, 0,
		100, 100,
	}

	kernel, err := New(data, 2, distance.SquaredEuclidean{})
	require.NoError(t, err)

	newCentroids, counts, _ := kernel.Iterate(centroids)

	assert.Equal(t, []int{2, 0}, counts)
	// Empty cluster keeps its zero column.
	assert.Equal(t, []float64{0, 0}, newCentroids[2:4])
}

func TestIterate_DegenerateSizes(t *testing.T) {
	t.Run("N below grain", func(t *testing.T) {
		// Far fewer points than the minimum per-worker granularity: must
		// not crash and must equal the single-worker result.
		data := []float64{0, 0, 0, 1, 5, 5}
		centroids := []float64{0, 0, 5, 5}

		kernel, err := New(data, 2, distance.SquaredEuclidean{}, func(o *Options) {
			o.MaxWorkers = 16
		})
		require.NoError(t, err)

		_, counts, _ := kernel.Iterate(centroids)
		assert.Equal(t, []int{2, 1}, counts)
	})

	t.Run("Empty dataset", func(t *testing.T) {
		kernel, err := New(nil, 2, distance.SquaredEuclidean{})
		require.NoError(t, err)

		newCentroids, counts, shift := kernel.Iterate([]float64{0, 0})
		assert.Equal(t, []float64{0, 0}, newCentroids)
		assert.Equal(t, []int{0}, counts)
		assert.Equal(t, 0.0, shift)
	})

	t.Run("Zero clusters", func(t *testing.T) {
		kernel, err := New([]float64{0, 0}, 2, distance.SquaredEuclidean{})
		require.NoError(t, err)

		newCentroids, counts, shift := kernel.Iterate(nil)
		assert.Empty(t, newCentroids)
		assert.Empty(t, counts)
		assert.Equal(t, 0.0, shift)
		assert.Equal(t, int64(0), kernel.DistanceCalculations())
	})
}

func TestIterate_SingleCluster(t *testing.T) {
	rng := testutil.NewRNG(99)

	const (
		n   = 321
		dim = 4
	)

	data := rng.FlatUniform(n, dim)

	kernel, err := New(data, dim, distance.SquaredEuclidean{})
	require.NoError(t, err)

	newCentroids, counts, _ := kernel.Iterate(make([]float64, dim))

	assert.Equal(t, []int{n}, counts)

	// K=1 collapses to the coordinate-wise mean of the whole dataset.
	mean := make([]float64, dim)
	for i := 0; i < n; i++ {
		for j := 0; j < dim; j++ {
			mean[j] += data[i*dim+j]
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
		assert.InDelta(t, mean[j], newCentroids[j], 1e-9)
	}
}

// The decomposed fast path and the direct Evaluate fallback must agree on
// assignments for the same geometry.
func TestIterate_FallbackMetric(t *testing.T) {
	rng := testutil.NewRNG(5)

	const (
		n   = 300
		dim = 8
		k   = 5
	)

	data := rng.FlatUniform(n, dim)
	centroids := rng.FlatUniform(k, dim)

	fast, err := New(data, dim, distance.SquaredEuclidean{})
	require.NoError(t, err)

	// directL2 deliberately hides the NormDecomposer capability.
	slow, err := New(data, dim, directL2{})
	require.NoError(t, err)

	assert.Equal(t, slow.Assignments(centroids), fast.Assignments(centroids))
}

type directL2 struct{}

func (directL2) Evaluate(a, b []float64) float64 {
	return distance.SquaredL2(a, b)
}

func TestDistanceCalculations(t *testing.T) {
	rng := testutil.NewRNG(3)

	const (
		n   = 150
		dim = 3
		k   = 4
	)

	data := rng.FlatUniform(n, dim)
	centroids := rng.FlatUniform(k, dim)

	kernel, err := New(data, dim, distance.SquaredEuclidean{})
	require.NoError(t, err)

	kernel.Iterate(centroids)
	kernel.Iterate(centroids)
	assert.Equal(t, int64(2*k*n), kernel.DistanceCalculations())

	kernel.Assignments(centroids)
	assert.Equal(t, int64(3*k*n), kernel.DistanceCalculations())
}

func BenchmarkIterate(b *testing.B) {
	rng := testutil.NewRNG(1)

	const (
		n   = 10000
		dim = 64
		k   = 16
	)

	data := rng.FlatUniform(n, dim)
	centroids := rng.FlatUniform(k, dim)

	kernel, err := New(data, dim, distance.SquaredEuclidean{})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _, _ = kernel.Iterate(centroids)
	}
}
