// Package kmeans provides parallel k-means clustering for Go.
//
// The package splits the problem the classical way: the lloyd subpackage
// implements the refinement step (assign points, recompute centroids, report
// movement) as a reusable kernel, and this package drives it to convergence
// with pluggable seeding, empty-cluster handling and structured logging.
//
// # Quick Start
//
//	km := kmeans.New(
//	    kmeans.WithMaxIterations(50),
//	    kmeans.WithTolerance(1e-6),
//	    kmeans.WithSeed(42),
//	)
//
//	result, err := km.Cluster(ctx, data, dim, k)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Centroids, result.Counts)
//
// Data is point-contiguous: point i occupies data[i*dim : (i+1)*dim].
//
// Trained centroids can be persisted as a compressed Model and used to
// classify new vectors without re-clustering:
//
//	model := kmeans.NewModel(dim, distance.MetricL2, result.Centroids)
//	_ = model.WriteTo(f, kmeans.CompressionZSTD)
package kmeans
