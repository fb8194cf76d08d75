package kmeans

import (
	"context"
	"math"
	"math/rand"

	"github.com/hupe1980/kmeans/distance"
	"github.com/hupe1980/kmeans/lloyd"
)

// KMeans clusters point-contiguous float64 datasets with Lloyd's algorithm.
// The zero-value defaults (k-means++ seeding, L2 metric, 100 iterations,
// tolerance 1e-6) are set by New; a KMeans instance is safe for concurrent
// use since each Cluster call carries its own state.
type KMeans struct {
	opts options
}

// New creates a KMeans instance with the given options.
func New(optFns ...Option) *KMeans {
	return &KMeans{
		opts: applyOptions(optFns),
	}
}

// Result holds the outcome of a clustering run.
type Result struct {
	// Centroids are the final cluster positions, point-contiguous (k*dim).
	Centroids []float64

	// Assignments maps every input point to its cluster index.
	Assignments []int

	// Counts holds the number of points per cluster. A zero entry marks an
	// empty cluster (only possible with WithKeepEmptyClusters).
	Counts []int

	// Iterations is the number of refinement steps executed.
	Iterations int

	// Shift is the total centroid displacement of the last step.
	Shift float64

	// Converged reports whether Shift fell below the tolerance before the
	// iteration cap.
	Converged bool

	// DistanceCalculations is the cumulative number of (centroid, point)
	// distance evaluations, for telemetry.
	DistanceCalculations int64
}

// Cluster partitions data into k clusters. data is point-contiguous: point i
// occupies data[i*dim : (i+1)*dim].
//
// It runs refinement steps until the total centroid shift drops below the
// configured tolerance or the iteration cap is reached, checking ctx between
// steps. Unless WithKeepEmptyClusters is set, clusters that lose all points
// are reseeded with a random point before the next step.
func (km *KMeans) Cluster(ctx context.Context, data []float64, dim, k int) (*Result, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if dim <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}

	dist := km.opts.dist
	if dist == nil {
		var err error
		dist, err = distance.For(km.opts.metric)
		if err != nil {
			return nil, err
		}
	}

	kernel, err := lloyd.New(data, dim, dist, func(o *lloyd.Options) {
		o.MaxWorkers = km.opts.maxWorkers
		o.GrainSize = km.opts.grainSize
	})
	if err != nil {
		return nil, err
	}

	if kernel.Len() < k {
		return nil, ErrTooFewPoints
	}

	rng := rand.New(rand.NewSource(km.opts.seed)) // nolint gosec

	centroids := make([]float64, k*dim)
	km.opts.initializer.Seed(rng, data, dim, centroids)

	logger := km.opts.logger.WithK(k).WithDimension(dim)

	var (
		shift      float64
		iterations int
		converged  bool
	)

	for i := 0; i < km.opts.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var counts []int
		centroids, counts, shift = kernel.Iterate(centroids)
		iterations++

		reseeded := 0
		if !km.opts.keepEmptyClusters {
			reseeded = reseedEmptyClusters(rng, data, dim, centroids, counts)
		}

		logger.LogIteration(ctx, iterations, shift, reseeded)

		// A reseed moves a centroid arbitrarily far; never converge on
		// that step.
		if reseeded == 0 && shift < km.opts.tolerance {
			converged = true
			break
		}
	}

	// Final labeling against the final centroids. Counts are recomputed
	// here so they match Assignments (the last step's counts refer to the
	// previous centroid positions).
	assignments := kernel.Assignments(centroids)
	counts := make([]int, k)
	for _, a := range assignments {
		counts[a]++
	}

	logger.LogCluster(ctx, iterations, shift, converged)

	return &Result{
		Centroids:            centroids,
		Assignments:          assignments,
		Counts:               counts,
		Iterations:           iterations,
		Shift:                shift,
		Converged:            converged,
		DistanceCalculations: kernel.DistanceCalculations(),
	}, nil
}

// reseedEmptyClusters replaces each zero-count centroid with a random point.
// Returns the number of clusters reseeded.
func reseedEmptyClusters(rng *rand.Rand, data []float64, dim int, centroids []float64, counts []int) int {
	n := len(data) / dim

	reseeded := 0
	for j, c := range counts {
		if c == 0 {
			idx := rng.Intn(n)
			copy(centroids[j*dim:(j+1)*dim], data[idx*dim:(idx+1)*dim])
			reseeded++
		}
	}

	return reseeded
}

// Assign finds the closest centroid for a single vector.
func Assign(vec, centroids []float64, dim int, metric distance.Metric) (int, error) {
	distFunc, err := distance.Provider(metric)
	if err != nil {
		return -1, err
	}

	if len(vec) != dim {
		return -1, &ErrDimensionMismatch{Expected: dim, Actual: len(vec)}
	}

	k := len(centroids) / dim
	best := -1
	minDist := math.Inf(1)

	for j := 0; j < k; j++ {
		d := distFunc(vec, centroids[j*dim:(j+1)*dim])
		if d < minDist {
			minDist = d
			best = j
		}
	}

	return best, nil
}
