// Package lloyd implements the refinement step of Lloyd's algorithm for
// k-means clustering.
//
// A Kernel is bound once to an immutable dataset and a distance metric.
// Each Iterate call assigns every point to its nearest centroid, recomputes
// the centroids as the means of their assigned points and reports the total
// centroid displacement. The surrounding concerns - seeding, the convergence
// loop and empty-cluster recovery - belong to the caller; the root kmeans
// package provides them.
//
// Assignment work is split across goroutines in contiguous chunks with
// thread-local accumulators, merged once per worker under a mutex. Results
// are deterministic for a given dataset and centroids up to floating-point
// addition order in the merge.
package lloyd
