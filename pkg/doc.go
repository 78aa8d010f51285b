// Package pkg provides the core libraries for Hubgrid tower allocation.
//
// # Overview
//
// Hubgrid assigns cell towers to hubs so that towers within interference
// range never share one. The pkg directory is organized into five areas:
//
//  1. [mesh] - Proximity graphs and distance matrices
//  2. [alloc] - Hub allocation and refinement algorithms
//  3. [geo] - Tower records, regions, and great-circle distances
//  4. [plan] - Orchestration (build → refine → allocate, per region)
//  5. [cache], [render], [errors], [observability], [buildinfo] - Supporting
//     infrastructure shared by the CLI and the HTTP API
//
// # Architecture
//
// The typical data flow through Hubgrid:
//
//	Tower records (CSV/JSON/API)
//	         ↓
//	geo: partition by (state, county, carrier), distance matrix
//	         ↓
//	mesh: threshold rule → proximity graph
//	         ↓
//	alloc: triangle refinement → greedy hubs → hub reduction
//	         ↓
//	plan: merge region allocations, cache, report
package pkg
