package plan

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/telcoplan/hubgrid/pkg/alloc"
	"github.com/telcoplan/hubgrid/pkg/cache"
	"github.com/telcoplan/hubgrid/pkg/errors"
	"github.com/telcoplan/hubgrid/pkg/geo"
	"github.com/telcoplan/hubgrid/pkg/mesh"
	"github.com/telcoplan/hubgrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Allocate runs the complete pipeline: partition towers into regions, build
// and refine each region's proximity graph, allocate hubs, and merge the
// per-region allocations into one result.
//
// A region that fails validation or allocation is recorded in Result.Errors
// and does not abort the run. Allocate itself returns an error only for
// invalid options, invalid input shared across regions (duplicate tower
// IDs), or context cancellation.
func (r *Runner) Allocate(ctx context.Context, nodes []geo.Node, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{
		RunID:      uuid.NewString(),
		Allocation: alloc.Allocation{},
		Regions:    make(map[string]RegionResult),
		Errors:     make(map[string]string),
	}

	if err := checkDuplicateIDs(nodes); err != nil {
		return nil, err
	}

	regions := partition(nodes)
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)

	r.Logger.Info("starting allocation run",
		"run_id", result.RunID,
		"nodes", len(nodes),
		"regions", len(names),
		"threshold_km", opts.ThresholdKm)

	workers := opts.Workers
	if workers > len(names) {
		workers = len(names)
	}

	type regionOutcome struct {
		name string
		res  RegionResult
		err  error
	}

	work := make(chan string)
	out := make(chan regionOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range work {
				res, err := r.AllocateRegion(ctx, regions[name], opts)
				out <- regionOutcome{name: name, res: res, err: err}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, name := range names {
			select {
			case work <- name:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	for outcome := range out {
		if outcome.err != nil {
			r.Logger.Error("region allocation failed",
				"region", outcome.name, "error", outcome.err)
			result.Errors[outcome.name] = outcome.err.Error()
			continue
		}
		result.Regions[outcome.name] = outcome.res
		if outcome.res.FromCache {
			result.CacheInfo.Hits++
		} else {
			result.CacheInfo.Misses++
		}
		for id, hub := range outcome.res.Allocation {
			result.Allocation[id] = hub
		}
		result.Stats.HubCount += outcome.res.HubCount
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "allocation run canceled")
	}

	result.Stats.NodeCount = len(result.Allocation)
	result.Stats.RegionCount = len(result.Regions)
	result.Stats.Duration = time.Since(start)

	observability.Plan().OnRunComplete(ctx, result.RunID,
		result.Stats.RegionCount, result.Stats.NodeCount, result.Stats.Duration, nil)

	r.Logger.Info("allocation run complete",
		"run_id", result.RunID,
		"regions", result.Stats.RegionCount,
		"failed", len(result.Errors),
		"hubs", result.Stats.HubCount,
		"cache_hits", result.CacheInfo.Hits,
		"duration", result.Stats.Duration)

	return result, nil
}

// AllocateRegion allocates hubs for the towers of a single region. All
// towers are assumed to share one (state, county, carrier) partition;
// callers normally reach this through Allocate.
func (r *Runner) AllocateRegion(ctx context.Context, nodes []geo.Node, opts Options) (RegionResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return RegionResult{}, err
	}

	region := ""
	if len(nodes) > 0 {
		region = geo.RegionOf(nodes[0]).String()
	}
	start := time.Now()
	observability.Plan().OnRegionStart(ctx, region, len(nodes))

	res, err := r.allocateRegionCached(ctx, region, nodes, opts)
	observability.Plan().OnRegionComplete(ctx, region, res.HubCount, time.Since(start), err)
	return res, err
}

func (r *Runner) allocateRegionCached(ctx context.Context, region string, nodes []geo.Node, opts Options) (RegionResult, error) {
	hash, err := nodesHash(nodes)
	if err != nil {
		return RegionResult{}, err
	}
	key := r.Keyer.RegionKey(hash, opts.RegionKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached RegionResult
			if json.Unmarshal(data, &cached) == nil {
				observability.Cache().OnCacheHit(ctx, "region")
				cached.FromCache = true
				opts.Logger.Debug("region served from cache", "region", region)
				return cached, nil
			}
			// Corrupt entry, recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "region")
	}

	res, err := allocateRegion(nodes, opts)
	if err != nil {
		return RegionResult{}, err
	}

	if data, err := json.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLRegion)
		observability.Cache().OnCacheSet(ctx, "region", len(data))
	}

	return res, nil
}

// allocateRegion is the pure pipeline for one region: distance matrix →
// proximity graph → triangle refinement → greedy allocation → hub
// reduction.
func allocateRegion(nodes []geo.Node, opts Options) (RegionResult, error) {
	// Regions of one or two towers cannot interfere in any way that the
	// refiners could improve: give each tower its own hub.
	if len(nodes) <= 2 {
		res := RegionResult{
			Allocation: alloc.Allocation{},
			NodeCount:  len(nodes),
			HubCount:   len(nodes),
			Converged:  true,
		}
		sorted := make([]geo.Node, len(nodes))
		copy(sorted, nodes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
		for i, n := range sorted {
			if err := n.Validate(); err != nil {
				return RegionResult{}, err
			}
			res.Allocation[n.ID] = i + 1
		}
		return res, nil
	}

	matrix, err := geo.DistanceMatrix(nodes)
	if err != nil {
		return RegionResult{}, err
	}
	g, err := mesh.Build(matrix, opts.ThresholdKm)
	if err != nil {
		return RegionResult{}, err
	}
	opts.Logger.Debug("proximity graph built",
		"nodes", g.NodeCount(), "edges", g.EdgeCount(), "threshold_km", opts.ThresholdKm)

	res := RegionResult{
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
	}

	work := g
	if !opts.SkipRefine && mesh.HasTriangles(work) {
		refined, removed := alloc.RefineTriangles(work)
		work = refined
		res.RemovedEdges += removed
		opts.Logger.Debug("triangle refinement removed edges", "removed", removed)
	}

	a := alloc.Greedy(work)

	// Every tower in range of another needs a frequency-reuse partner hub.
	if a.HubCount() < 2 && len(nodes) >= 2 {
		a = splitSingleHub(a)
	}

	res.Converged = true
	if a.HubCount() > opts.TargetMax {
		reduced, next, err := alloc.ReduceHubs(a, work, opts.TargetMax)
		if err != nil {
			if errors.GetCode(err) != errors.ErrCodeNotConverged {
				return RegionResult{}, err
			}
			res.Converged = false
			opts.Logger.Warn("hub reduction stalled above target",
				"hubs", next.HubCount(), "target", opts.TargetMax)
		}
		res.RemovedEdges += work.EdgeCount() - reduced.EdgeCount()
		a = next
	}

	res.Allocation = a
	res.HubCount = a.HubCount()
	return res, nil
}

// splitSingleHub reassigns every other tower of a one-hub allocation to a
// second hub, in ascending ID order.
func splitSingleHub(a alloc.Allocation) alloc.Allocation {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	next := alloc.Allocation{}
	for i, id := range ids {
		next[id] = 1 + i%2
	}
	return next
}

// partition groups towers by (state, county, carrier).
func partition(nodes []geo.Node) map[string][]geo.Node {
	regions := make(map[string][]geo.Node)
	for _, n := range nodes {
		key := geo.RegionOf(n).String()
		regions[key] = append(regions[key], n)
	}
	return regions
}

// checkDuplicateIDs rejects inputs that reuse a tower ID, including across
// regions: the merged allocation is keyed by ID alone.
func checkDuplicateIDs(nodes []geo.Node) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if _, ok := seen[n.ID]; ok {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate tower ID %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return nil
}

// nodesHash computes a content hash of a region's towers, independent of
// input order.
func nodesHash(nodes []geo.Node) (string, error) {
	sorted := make([]geo.Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	data, err := json.Marshal(sorted)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash region nodes")
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
