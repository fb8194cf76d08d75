package kmeans

import (
	"log/slog"
	"math/rand"

	"github.com/hupe1980/kmeans/distance"
)

type options struct {
	maxIterations     int
	tolerance         float64
	metric            distance.Metric
	dist              distance.Distance
	seed              int64
	initializer       Initializer
	keepEmptyClusters bool
	maxWorkers        int
	grainSize         int
	logger            *Logger
}

// Option configures KMeans behavior.
type Option func(*options)

// WithMaxIterations caps the number of refinement steps per Cluster call.
// The default is 100.
func WithMaxIterations(maxIterations int) Option {
	return func(o *options) {
		o.maxIterations = maxIterations
	}
}

// WithTolerance sets the convergence threshold: clustering stops once the
// total centroid shift of an iteration falls below it. The default is 1e-6.
func WithTolerance(tolerance float64) Option {
	return func(o *options) {
		o.tolerance = tolerance
	}
}

// WithMetric selects the distance metric. The default is distance.MetricL2.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithDistance plugs in a custom distance capability, overriding WithMetric.
// Implement distance.NormDecomposer as well to enable the cached-norm fast
// path in the kernel.
func WithDistance(d distance.Distance) Option {
	return func(o *options) {
		o.dist = d
	}
}

// WithSeed fixes the random seed used for centroid seeding and empty-cluster
// reseeding, making runs reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithInitializer selects the centroid seeding strategy.
// The default is PlusPlusInit.
func WithInitializer(init Initializer) Option {
	return func(o *options) {
		if init == nil {
			init = PlusPlusInit{}
		}
		o.initializer = init
	}
}

// WithKeepEmptyClusters disables reseeding of clusters that received no
// points. Empty clusters then keep a zero centroid and are surfaced via
// Result.Counts.
func WithKeepEmptyClusters() Option {
	return func(o *options) {
		o.keepEmptyClusters = true
	}
}

// WithMaxWorkers caps the goroutines used per iteration.
// <= 0 selects runtime.GOMAXPROCS(0).
func WithMaxWorkers(maxWorkers int) Option {
	return func(o *options) {
		o.maxWorkers = maxWorkers
	}
}

// WithGrainSize sets the minimum number of points per worker. Small inputs
// stay on fewer goroutines. <= 0 selects the default of 100.
func WithGrainSize(grainSize int) Option {
	return func(o *options) {
		o.grainSize = grainSize
	}
}

// WithLogger configures structured logging for clustering runs.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		maxIterations: 100,
		tolerance:     1e-6,
		metric:        distance.MetricL2,
		seed:          rand.Int63(), // nolint gosec
		initializer:   PlusPlusInit{},
		logger:        NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
