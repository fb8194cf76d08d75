// Package distance provides the distance metrics used for clustering.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//   - MetricCosine: 1 - cosine similarity
//   - MetricDot: Negated inner product
//
// Metrics are exposed two ways: as plain functions (Func via Provider) for
// callers that only need pairwise evaluation, and as Distance capability
// objects (via For) for the lloyd kernel. Metrics that additionally implement
// NormDecomposer let the kernel cache squared centroid norms and reduce the
// inner loop to a single dot product per pair.
package distance
