// Package testutil provides testing utilities for the kmeans module.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random number generator and helpers for
// generating flat point-contiguous datasets with known cluster structure.
//
//	rng := testutil.NewRNG(seed)
//	data := rng.FlatUniform(1000, 16)                  // uniform [0, 1)
//	data = rng.GaussianBlobs(centers, 2, 100, 0.05)    // labeled blobs
package testutil
