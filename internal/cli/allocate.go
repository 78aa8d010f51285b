package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/telcoplan/hubgrid/pkg/plan"
)

// allocateCommand creates the allocate command.
func (c *CLI) allocateCommand() *cobra.Command {
	var (
		output  string
		asJSON  bool
		noCache bool
	)
	opts := plan.Options{}

	cmd := &cobra.Command{
		Use:   "allocate [towers.csv]",
		Short: "Assign towers to interference-free hubs",
		Long: `Assign towers to interference-free hubs.

The allocate command reads tower records from a CSV or JSON file, splits
them into (state, county, carrier) regions, and assigns each tower to a
hub so that no two towers within the distance threshold share one. Regions
are processed in parallel and converge toward the target hub count.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				opts.ThresholdKm = 0
			}
			if !cmd.Flags().Changed("target") {
				opts.TargetMax = 0
			}
			if !cmd.Flags().Changed("workers") {
				opts.Workers = 0
			}
			cfg.apply(&opts)
			return c.runAllocate(cmd.Context(), args[0], cfg, opts, output, asJSON, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file (.csv for node_id,hub rows, otherwise JSON)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON to stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute regions, ignoring cached results")
	cmd.Flags().BoolVar(&opts.SkipRefine, "skip-refine", false, "skip triangle refinement")
	cmd.Flags().Float64Var(&opts.ThresholdKm, "threshold", plan.DefaultThresholdKm, "interference distance in km")
	cmd.Flags().IntVar(&opts.TargetMax, "target", plan.DefaultTargetMax, "target hub count per region")
	cmd.Flags().IntVar(&opts.Workers, "workers", plan.DefaultWorkers, "regions processed concurrently")

	return cmd
}

// runAllocate loads towers, runs the pipeline, and reports the result.
func (c *CLI) runAllocate(ctx context.Context, input string, cfg *Config, opts plan.Options, output string, asJSON, noCache bool) error {
	nodes, err := loadTowers(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Allocating %d towers...", len(nodes)))
	spinner.Start()

	result, err := runner.Allocate(ctx, nodes, opts)
	if err != nil {
		spinner.StopWithError("Allocation failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Allocated %d towers", result.Stats.NodeCount))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printSuccess("Allocated %d towers into %d hubs across %d regions",
		result.Stats.NodeCount, result.Stats.HubCount, result.Stats.RegionCount)
	printKeyValue("run", result.RunID)
	printKeyValue("cache", fmt.Sprintf("%d hits, %d misses", result.CacheInfo.Hits, result.CacheInfo.Misses))
	printNewline()

	names := make([]string, 0, len(result.Regions))
	for name := range result.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		region := result.Regions[name]
		printRegionStats(name, region.NodeCount, region.HubCount, region.FromCache)
		if !region.Converged {
			printWarning("region %s stalled above the hub target", name)
		}
	}
	for name, msg := range result.Errors {
		printWarning("region %s failed: %s", name, msg)
	}

	if output != "" {
		if err := writeResult(output, result); err != nil {
			return err
		}
		printNewline()
		printFile(output)
		if filepath.Ext(output) != ".csv" {
			printNextStep("Browse regions", fmt.Sprintf("hubgrid regions %s", output))
		}
	}

	return nil
}

// writeResult writes the result to path. A .csv extension selects node_id,hub
// rows; anything else gets the full result as JSON.
func writeResult(path string, result *plan.Result) error {
	if filepath.Ext(path) == ".csv" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		if err := w.Write([]string{"node_id", "hub"}); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		ids := make([]string, 0, len(result.Allocation))
		for id := range result.Allocation {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if err := w.Write([]string{id, strconv.Itoa(result.Allocation[id])}); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
		w.Flush()
		return w.Error()
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
