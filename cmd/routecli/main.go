// cmd/routecli is a thin Cobra CLI over the routing core, grounded in
// cmd/cli/amm.go's command-tree style and cmd/synnergy/main.go's single
// root-command wiring. It is a demonstration/operational harness, not part
// of the core's API surface (spec §6, "no CLI, no HTTP; the core is a
// library" — this binary is the library's one caller, not the library).
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synnergy-network/dexrouting/bmssp"
	"github.com/synnergy-network/dexrouting/dijkstra"
	"github.com/synnergy-network/dexrouting/graph"
	"github.com/synnergy-network/dexrouting/graphio"
	"github.com/synnergy-network/dexrouting/pkg/routeconfig"
	"github.com/synnergy-network/dexrouting/pkg/utils"
	"github.com/synnergy-network/dexrouting/validate"
)

func main() {
	rootCmd := &cobra.Command{Use: "routecli"}
	rootCmd.AddCommand(routeCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func routeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "route"}
	cmd.PersistentFlags().String("graph", "", "path to a JSON-encoded graph (spec §6 wire format)")
	cmd.PersistentFlags().String("from", "", "source vertex, SYMBOL.chain")
	cmd.PersistentFlags().String("to", "", "target vertex, SYMBOL.chain")
	cmd.PersistentFlags().Float64("amount", 1, "input amount")
	cmd.PersistentFlags().Int("max-hops", utils.EnvOrDefaultInt("ROUTE_MAX_HOPS", 0), "override default_max_hops (0 = use config default)")
	cmd.PersistentFlags().String("config", utils.EnvOrDefault("ROUTE_CONFIG_NAME", ""), "config file name for routeconfig.Load (searched in . and ./config)")

	cmd.AddCommand(classicCmd())
	cmd.AddCommand(bmsspCmd())
	cmd.AddCommand(validateCmd())
	return cmd
}

func loadGraph(cmd *cobra.Command) (*graph.Graph, error) {
	path, _ := cmd.Flags().GetString("graph")
	if path == "" {
		return nil, fmt.Errorf("--graph is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph file: %w", err)
	}
	return graphio.DecodeGraph(data)
}

func loadEndpoints(cmd *cobra.Command) (graph.TokenKey, graph.TokenKey, float64, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	amount, _ := cmd.Flags().GetFloat64("amount")
	if from == "" || to == "" {
		return graph.TokenKey{}, graph.TokenKey{}, 0, fmt.Errorf("--from and --to are required")
	}
	fromKey, err := parseKey(from)
	if err != nil {
		return graph.TokenKey{}, graph.TokenKey{}, 0, err
	}
	toKey, err := parseKey(to)
	if err != nil {
		return graph.TokenKey{}, graph.TokenKey{}, 0, err
	}
	return fromKey, toKey, amount, nil
}

func parseKey(s string) (graph.TokenKey, error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return graph.TokenKey{Symbol: graph.Symbol(s[:i]), Chain: graph.Chain(s[i+1:])}, nil
		}
	}
	return graph.TokenKey{}, fmt.Errorf("invalid vertex key %q, want SYMBOL.chain", s)
}

func loadBuildOptions(cmd *cobra.Command) routeconfig.BuildOptions {
	name, _ := cmd.Flags().GetString("config")
	opts, err := routeconfig.Load(name, ".", "./config")
	if err != nil {
		opts = routeconfig.Defaults()
	}
	if maxHops, _ := cmd.Flags().GetInt("max-hops"); maxHops > 0 {
		opts.DefaultMaxHops = maxHops
	}
	return opts
}

func printRoute(res *graph.RouteResult) error {
	data, err := graphio.EncodeRouteResult(res)
	if err != nil {
		return err
	}
	var pretty map[string]any
	if err := json.Unmarshal(data, &pretty); err != nil {
		return err
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func classicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classic",
		Short: "solve with the classic heap-based Dijkstra solver",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd)
			if err != nil {
				return err
			}
			from, to, amount, err := loadEndpoints(cmd)
			if err != nil {
				return err
			}
			buildOpts := loadBuildOptions(cmd)
			opts := dijkstra.Options{MaxHops: buildOpts.DefaultMaxHops, Cost: buildOpts.ToCostOptions()}

			res, err := dijkstra.Solve(g, from, to, amount, opts)
			if err != nil {
				return err
			}
			return printRoute(res)
		},
	}
}

func bmsspCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bmssp",
		Short: "solve with the bounded multi-source shortest path solver",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd)
			if err != nil {
				return err
			}
			from, to, amount, err := loadEndpoints(cmd)
			if err != nil {
				return err
			}
			buildOpts := loadBuildOptions(cmd)
			opts := bmssp.Options{MaxHops: buildOpts.DefaultMaxHops, Cost: buildOpts.ToCostOptions()}

			res, err := bmssp.Solve(g, from, to, amount, opts)
			if err != nil {
				return err
			}
			return printRoute(res)
		},
	}
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "solve with classic Dijkstra and score the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd)
			if err != nil {
				return err
			}
			from, to, amount, err := loadEndpoints(cmd)
			if err != nil {
				return err
			}
			buildOpts := loadBuildOptions(cmd)
			opts := dijkstra.Options{MaxHops: buildOpts.DefaultMaxHops, Cost: buildOpts.ToCostOptions()}

			res, err := dijkstra.Solve(g, from, to, amount, opts)
			if err != nil {
				return err
			}

			maxSlippage, _ := cmd.Flags().GetFloat64("max-slippage")
			maxGasUSD, _ := cmd.Flags().GetFloat64("max-gas-usd")
			maxTimeMS, _ := cmd.Flags().GetFloat64("max-time-ms")
			nativePrice, _ := cmd.Flags().GetFloat64("native-price-usd")

			limits := validate.Limits{MaxSlippage: maxSlippage, MaxGasUSD: maxGasUSD, MaxTimeMS: maxTimeMS}
			report := validate.Route(res, amount, nativePrice, limits, buildOpts.ToAMMOptions())

			fmt.Printf("is_valid=%v overall_score=%.1f\n", report.IsValid, report.OverallScore)
			for _, f := range report.Failures {
				fmt.Printf("FAILURE step=%d code=%s severity=%s recoverable=%v: %s\n", f.Step, f.Code, f.Severity, f.Recoverable, f.Message)
			}
			for _, w := range report.Warnings {
				fmt.Printf("WARNING step=%d code=%s: %s\n", w.Step, w.Code, w.Message)
			}
			return nil
		},
	}
	cmd.Flags().Float64("max-slippage", 0.05, "maximum acceptable price impact fraction")
	cmd.Flags().Float64("max-gas-usd", 50, "maximum acceptable per-step gas in USD")
	cmd.Flags().Float64("max-time-ms", 600_000, "maximum acceptable total execution time in ms")
	cmd.Flags().Float64("native-price-usd", 0, "native token USD price, for gas conversion")
	return cmd
}
