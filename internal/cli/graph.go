package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/telcoplan/hubgrid/pkg/cache"
	"github.com/telcoplan/hubgrid/pkg/errors"
	"github.com/telcoplan/hubgrid/pkg/geo"
	"github.com/telcoplan/hubgrid/pkg/mesh"
	"github.com/telcoplan/hubgrid/pkg/plan"
	"github.com/telcoplan/hubgrid/pkg/render"
)

// Graph export formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// graphCommand creates the graph export command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		region    string
		format    string
		output    string
		weights   bool
		noCache   bool
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "graph [towers.csv]",
		Short: "Export a region's proximity graph as DOT, SVG, or PNG",
		Long: `Export a region's proximity graph as DOT, SVG, or PNG.

The graph command builds the proximity graph for one (state, county,
carrier) region and writes it out for visual inspection. Nodes are colored
by their hub assignment. When the input holds a single region the --region
flag may be omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), cfg, args[0], region, format, output, weights, noCache, threshold)
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "region to export, as state/county/carrier")
	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot (default), svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout for dot)")
	cmd.Flags().BoolVar(&weights, "weights", false, "label edges with distances (km)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&threshold, "threshold", plan.DefaultThresholdKm, "interference distance in km")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, cfg *Config, input, regionName, format, output string, weights, noCache bool, threshold float64) error {
	if format != formatDOT && format != formatSVG && format != formatPNG {
		return errors.New(errors.ErrCodeUnsupported,
			"invalid format %q (must be one of: dot, svg, png)", format)
	}

	nodes, err := loadTowers(input)
	if err != nil {
		return err
	}
	regionNodes, err := selectRegion(nodes, regionName)
	if err != nil {
		return err
	}
	if regionName == "" {
		regionName = geo.RegionOf(regionNodes[0]).String()
	}

	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	export, err := exportGraph(ctx, store, newKeyer(cfg), c.Logger, regionNodes, regionName, weights, threshold)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatDOT:
		data = []byte(export.Dot)
	case formatSVG:
		data, err = render.RenderSVG(export.Dot)
	case formatPNG:
		data, err = render.RenderPNG(export.Dot)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if output == "" {
		if format == formatDOT {
			fmt.Print(export.Dot)
			return nil
		}
		output = strings.ReplaceAll(regionName, "/", "-") + "." + format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Exported %s graph (%d towers, %d edges)", regionName, export.Nodes, export.Edges)
	printFile(output)
	return nil
}

// graphExport is the cached payload of one region's DOT export.
type graphExport struct {
	Dot       string `json:"dot"`
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
	FromCache bool   `json:"-"`
}

// exportGraph builds the DOT export for one region, served from the cache
// when the same towers, weight labels, and threshold were exported before.
func exportGraph(ctx context.Context, store cache.Cache, keyer cache.Keyer, logger *log.Logger, nodes []geo.Node, name string, weights bool, threshold float64) (graphExport, error) {
	sorted := make([]geo.Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	payload, err := json.Marshal(struct {
		Nodes   []geo.Node `json:"nodes"`
		Weights bool       `json:"weights"`
	}{sorted, weights})
	if err != nil {
		return graphExport{}, fmt.Errorf("hash region nodes: %w", err)
	}
	key := keyer.GraphKey(cache.Hash(payload), threshold)

	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		var cached graphExport
		if json.Unmarshal(data, &cached) == nil {
			logger.Debug("graph export served from cache", "region", name)
			cached.FromCache = true
			return cached, nil
		}
	}

	matrix, err := geo.DistanceMatrix(nodes)
	if err != nil {
		return graphExport{}, err
	}
	g, err := mesh.Build(matrix, threshold)
	if err != nil {
		return graphExport{}, err
	}

	// Allocation only drives node colors.
	runner := plan.NewRunner(nil, nil, logger)
	opts := plan.Options{ThresholdKm: threshold, Logger: logger}
	regionResult, err := runner.AllocateRegion(ctx, nodes, opts)
	if err != nil {
		return graphExport{}, err
	}

	export := graphExport{
		Dot: render.ToDOT(g, regionResult.Allocation, render.Options{
			Weights: weights,
			Name:    name,
		}),
		Nodes: g.NodeCount(),
		Edges: g.EdgeCount(),
	}
	if data, err := json.Marshal(export); err == nil {
		_ = store.Set(ctx, key, data, cache.TTLGraph)
	}
	return export, nil
}

// selectRegion filters towers to one region. When name is empty, the input
// must hold exactly one region.
func selectRegion(nodes []geo.Node, name string) ([]geo.Node, error) {
	byRegion := make(map[string][]geo.Node)
	for _, n := range nodes {
		byRegion[geo.RegionOf(n).String()] = append(byRegion[geo.RegionOf(n).String()], n)
	}
	if len(byRegion) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no towers in input")
	}

	if name == "" {
		if len(byRegion) > 1 {
			names := make([]string, 0, len(byRegion))
			for r := range byRegion {
				names = append(names, r)
			}
			sort.Strings(names)
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"input holds %d regions, pick one with --region: %s",
				len(byRegion), strings.Join(names, ", "))
		}
		for _, regionNodes := range byRegion {
			return regionNodes, nil
		}
	}

	regionNodes, ok := byRegion[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "region %q not found in input", name)
	}
	return regionNodes, nil
}
