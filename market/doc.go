// Package market implements the routing and cost-optimization core of the
// Lab402 autonomous-laboratory marketplace SDK.
//
// # Reading Guide
//
// Start with these three files to understand the selection core:
//   - catalog.go: read-only provider/model/tier catalogs and availability rules
//   - router.go: single-provider selection under a named strategy
//   - optimizer.go: joint provider × AI-model × compute-tier optimization
//
// # Architecture
//
// The Router and CostOptimizer are pure, synchronous computations over an
// in-memory Catalog: no I/O, no retries, no hidden randomness. They allocate
// fresh result values per call and are safe for concurrent use; the only
// mutable catalog state (lab load) is guarded inside Catalog.
//
// Batch economics (volume discounts, parallelism) live in pricing.go and are
// shared between the optimizer and the batch executor in batch.go. The
// executor processes samples in fixed-size concurrent groups and reports
// per-sample outcomes through an optional callback rather than a broadcast
// side channel.
//
// Simulated collaborators (instrument execution, AI interpretation, invoice
// assembly) live in simulate.go. They stand in for the real marketplace
// services and fabricate deterministic data from a seeded, partitioned RNG.
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - SampleProcessor: process one sample of a batch (the simulated executor implements it)
//   - CapabilityChecker: gate instrument access per caller (AllowAll by default)
//
// Routing strategies and optimizer priorities are named registries, not
// interfaces: see router_strategies.go and constraints.go.
package market
