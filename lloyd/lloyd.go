package lloyd

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/kmeans/distance"
	"github.com/hupe1980/kmeans/internal/math64"
	"github.com/hupe1980/kmeans/internal/parallel"
)

var (
	// ErrInvalidDimension is returned when the dimension is not positive.
	ErrInvalidDimension = errors.New("dimension must be positive")

	// ErrDataLength is returned when the data length is not a multiple of
	// the dimension.
	ErrDataLength = errors.New("data length is not a multiple of dimension")

	// ErrNilDistance is returned when no distance capability is provided.
	ErrNilDistance = errors.New("distance must not be nil")
)

// Options configure a Kernel.
type Options struct {
	// MaxWorkers caps the number of goroutines per Iterate call.
	// <= 0 selects runtime.GOMAXPROCS(0).
	MaxWorkers int

	// GrainSize is the minimum number of points per worker.
	// <= 0 selects parallel.DefaultGrain.
	GrainSize int
}

// Kernel performs single refinement steps of Lloyd's algorithm over a fixed
// dataset. It is bound at construction to the dataset and a distance metric;
// centroids are supplied per call.
//
// The dataset is point-contiguous: point i occupies data[i*dim : (i+1)*dim].
// It must not be mutated while the kernel is in use.
type Kernel struct {
	data []float64
	dim  int
	n    int

	dist   distance.Distance
	decomp distance.NormDecomposer // nil when dist lacks the capability

	opts Options

	distanceCalculations atomic.Int64
}

// New creates a Kernel bound to the given dataset and distance capability.
func New(data []float64, dim int, dist distance.Distance, optFns ...func(*Options)) (*Kernel, error) {
	if dim <= 0 {
		return nil, ErrInvalidDimension
	}
	if len(data)%dim != 0 {
		return nil, ErrDataLength
	}
	if dist == nil {
		return nil, ErrNilDistance
	}

	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	k := &Kernel{
		data: data,
		dim:  dim,
		n:    len(data) / dim,
		dist: dist,
		opts: opts,
	}

	// Metrics satisfying the norm decomposition identity get the cached-norm
	// fast path; everything else evaluates pairwise.
	if d, ok := dist.(distance.NormDecomposer); ok {
		k.decomp = d
	}

	return k, nil
}

// Len returns the number of points in the dataset.
func (kn *Kernel) Len() int { return kn.n }

// Dim returns the dataset dimensionality.
func (kn *Kernel) Dim() int { return kn.dim }

// Iterate runs one assignment and recompute pass against the given centroids.
//
// centroids is point-contiguous with k = len(centroids)/dim columns and is
// not mutated. It returns the recomputed centroids (the mean of each
// cluster's assigned points), the number of points assigned to each cluster
// and the total shift: the summed L2 displacement between old and new
// centroid positions, the caller's convergence signal.
//
// Clusters that receive no points keep a zero column; recovery is the
// caller's responsibility and is surfaced via counts[j] == 0. An empty
// dataset or k == 0 returns empty outputs and zero shift.
func (kn *Kernel) Iterate(centroids []float64) (newCentroids []float64, counts []int, shift float64) {
	dim := kn.dim
	k := len(centroids) / dim
	n := kn.n

	newCentroids = make([]float64, k*dim)
	counts = make([]int, k)

	if k == 0 || n == 0 {
		return newCentroids, counts, 0
	}

	norms := kn.centroidNorms(centroids, k)

	var mu sync.Mutex

	// Workers never return errors; ForEach is used for its chunking and join.
	_ = parallel.ForEach(n, kn.opts.MaxWorkers, kn.opts.GrainSize, func(start, end int) error {
		localSums := make([]float64, k*dim)
		localCounts := make([]int, k)

		for i := start; i < end; i++ {
			point := kn.data[i*dim : (i+1)*dim]
			best := kn.nearest(point, centroids, norms, k)
			math64.AddInPlace(localSums[best*dim:(best+1)*dim], point)
			localCounts[best]++
		}

		// One merge per worker; the loop above touches only worker-private
		// buffers.
		mu.Lock()
		math64.AddInPlace(newCentroids, localSums)
		for j, c := range localCounts {
			counts[j] += c
		}
		mu.Unlock()

		return nil
	})

	// Accumulated sums become per-cluster means.
	for j := 0; j < k; j++ {
		if counts[j] > 0 {
			math64.ScaleInPlace(newCentroids[j*dim:(j+1)*dim], 1/float64(counts[j]))
		}
	}

	for j := 0; j < k; j++ {
		old := centroids[j*dim : (j+1)*dim]
		cur := newCentroids[j*dim : (j+1)*dim]
		shift += math.Sqrt(math64.SquaredL2(old, cur))
	}

	kn.distanceCalculations.Add(int64(k) * int64(n))

	return newCentroids, counts, shift
}

// Assignments returns the index of the nearest centroid for every point.
func (kn *Kernel) Assignments(centroids []float64) []int {
	dim := kn.dim
	k := len(centroids) / dim

	assignments := make([]int, kn.n)
	if k == 0 || kn.n == 0 {
		return assignments
	}

	norms := kn.centroidNorms(centroids, k)

	_ = parallel.ForEach(kn.n, kn.opts.MaxWorkers, kn.opts.GrainSize, func(start, end int) error {
		for i := start; i < end; i++ {
			point := kn.data[i*dim : (i+1)*dim]
			assignments[i] = kn.nearest(point, centroids, norms, k)
		}
		return nil
	})

	kn.distanceCalculations.Add(int64(k) * int64(kn.n))

	return assignments
}

// DistanceCalculations returns the cumulative number of (centroid, point)
// distance evaluations since construction. Each pass accounts k*n
// evaluations regardless of partitioning, so this is a coarse telemetry
// figure, not an exact comparison count.
func (kn *Kernel) DistanceCalculations() int64 {
	return kn.distanceCalculations.Load()
}

// centroidNorms precomputes the squared norm of every centroid column.
// Returns nil when the metric lacks norm decomposition. Recomputed every
// call: centroids move between iterations.
func (kn *Kernel) centroidNorms(centroids []float64, k int) []float64 {
	if kn.decomp == nil {
		return nil
	}

	norms := make([]float64, k)
	for j := range norms {
		norms[j] = kn.decomp.SquaredNorm(centroids[j*kn.dim : (j+1)*kn.dim])
	}

	return norms
}

// nearest returns the lowest-indexed centroid at minimal distance from point.
// Strict less-than keeps tie-breaks deterministic regardless of worker count.
func (kn *Kernel) nearest(point, centroids, norms []float64, k int) int {
	dim := kn.dim
	best := 0
	minDist := math.Inf(1)

	if norms != nil {
		// dist = |p|^2 + |c|^2 - 2*(p.c), with |p|^2 hoisted out of the
		// centroid loop and |c|^2 cached in norms.
		pointNorm := kn.decomp.SquaredNorm(point)
		for j := 0; j < k; j++ {
			d := pointNorm + norms[j] - 2*kn.decomp.Dot(point, centroids[j*dim:(j+1)*dim])
			if d < minDist {
				minDist = d
				best = j
			}
		}

		return best
	}

	for j := 0; j < k; j++ {
		d := kn.dist.Evaluate(point, centroids[j*dim:(j+1)*dim])
		if d < minDist {
			minDist = d
			best = j
		}
	}

	return best
}
