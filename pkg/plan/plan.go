// Package plan provides the core allocation pipeline for Hubgrid.
//
// This package implements the complete build → refine → allocate pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline runs independently for each (state, county, carrier) region:
//
//  1. Build: compute the pairwise distance matrix and derive the proximity
//     graph using the distance threshold
//  2. Refine: break 3-tower interference cliques by removing their heaviest
//     edges
//  3. Allocate: assign towers to hubs greedily, then strip edges until the
//     hub count reaches the target
//
// Regions are processed concurrently and merged into a single allocation.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := plan.NewRunner(cache, nil, logger)
//	opts := plan.Options{ThresholdKm: 20}
//	result, err := runner.Allocate(ctx, nodes, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	hub := result.Allocation["tower-17"]
package plan

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/telcoplan/hubgrid/pkg/alloc"
	"github.com/telcoplan/hubgrid/pkg/cache"
	"github.com/telcoplan/hubgrid/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultThresholdKm is the distance under which two towers interfere.
	DefaultThresholdKm = 20.0

	// DefaultTargetMax is the hub count each region converges toward.
	// Two hubs is the frequency-reuse minimum for towers in range of each
	// other.
	DefaultTargetMax = 2

	// DefaultWorkers is the number of regions processed concurrently.
	DefaultWorkers = 4

	// MaxWorkers caps the worker pool so API callers cannot request an
	// unbounded fan-out.
	MaxWorkers = 64
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the allocation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// ThresholdKm is the interference distance. Towers at or below this
	// distance from each other share an edge in the proximity graph.
	ThresholdKm float64 `json:"threshold_km,omitempty"`

	// TargetMax is the maximum hub count a region is reduced toward.
	TargetMax int `json:"target_max,omitempty"`

	// Workers bounds the number of regions processed concurrently.
	Workers int `json:"workers,omitempty"`

	// SkipRefine disables triangle refinement before allocation.
	SkipRefine bool `json:"skip_refine,omitempty"`

	// Refresh bypasses the cache and recomputes every region.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ThresholdKm == 0 {
		o.ThresholdKm = DefaultThresholdKm
	}
	if err := errors.ValidateThreshold(o.ThresholdKm); err != nil {
		return err
	}
	if o.TargetMax == 0 {
		o.TargetMax = DefaultTargetMax
	}
	if err := errors.ValidateTargetMax(o.TargetMax); err != nil {
		return err
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers < 1 || o.Workers > MaxWorkers {
		return errors.New(errors.ErrCodeInvalidInput,
			"workers must be between 1 and %d, got %d", MaxWorkers, o.Workers)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RegionKeyOpts returns cache key options for region allocation.
func (o *Options) RegionKeyOpts() cache.RegionKeyOpts {
	return cache.RegionKeyOpts{
		ThresholdKm: o.ThresholdKm,
		TargetMax:   o.TargetMax,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of an allocation run.
type Result struct {
	// RunID uniquely identifies this run in logs and API responses.
	RunID string `json:"run_id"`

	// Allocation maps every tower ID to its hub number. Hub numbers are
	// region-local: towers in different regions never interfere, so their
	// hubs are independent.
	Allocation alloc.Allocation `json:"allocation"`

	// Regions holds the per-region outcomes keyed by "state/county/carrier".
	Regions map[string]RegionResult `json:"regions"`

	// Errors holds failure messages for regions that could not be
	// allocated, keyed like Regions. A failed region never aborts the run.
	Errors map[string]string `json:"errors,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks cache effectiveness across regions.
	CacheInfo CacheInfo `json:"cache_info"`
}

// RegionResult is the outcome for a single (state, county, carrier) region.
type RegionResult struct {
	// Allocation maps the region's tower IDs to hub numbers starting at 1.
	Allocation alloc.Allocation `json:"allocation"`

	// NodeCount is the number of towers in the region.
	NodeCount int `json:"node_count"`

	// EdgeCount is the number of proximity edges before refinement.
	EdgeCount int `json:"edge_count"`

	// HubCount is the number of hubs in the final allocation.
	HubCount int `json:"hub_count"`

	// RemovedEdges counts edges stripped by triangle refinement and hub
	// reduction combined.
	RemovedEdges int `json:"removed_edges"`

	// Converged reports whether the region reached TargetMax hubs. A
	// region that stalls keeps its best allocation and sets this false.
	Converged bool `json:"converged"`

	// FromCache reports whether the result was served from the cache.
	FromCache bool `json:"from_cache"`
}

// Stats contains run execution statistics.
type Stats struct {
	NodeCount   int           `json:"node_count"`
	RegionCount int           `json:"region_count"`
	HubCount    int           `json:"hub_count"`
	Duration    time.Duration `json:"duration"`
}

// CacheInfo tracks cache hits and misses across regions.
type CacheInfo struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}
