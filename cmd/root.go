package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	market "github.com/ponimarevan/lab402/market"
)

var (
	// Global CLI flags
	logLevel    string // Log verbosity level
	catalogFile string // Optional YAML catalog overriding the built-in seed

	// Request flags shared by route/optimize/compare/savings/batch
	instrument   string   // Instrument kind (e.g. "dna-sequencer")
	samples      int      // Number of homogeneous samples in the batch
	priority     string   // Optimization priority: cost, speed, quality, balanced
	strategy     string   // Routing strategy (route command only)
	maxCost      float64  // Budget ceiling in USD (0 = unset)
	minQuality   float64  // Quality floor on the 1-5 scale (0 = unset)
	maxTime      string   // Deadline as a compact duration string (e.g. "24h")
	locations    []string // Preferred country codes
	certs        []string // Required certification labels
	excludeLabs  []string // Lab IDs to exclude
	maxDistance  float64  // Distance cap in km (route command, needs --lat/--lon)
	callerLat    float64  // Caller latitude
	callerLon    float64  // Caller longitude
	hasCoord     bool     // Set when both --lat and --lon were provided
	alternatives bool     // Include ranked alternatives in optimizer output

	// Batch command flags
	batchPriority string  // Dispatch priority: high, normal, low
	simSeed       int64   // Seed for the simulated execution collaborator
	failureRate   float64 // Per-sample simulated failure probability
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lab402",
	Short: "Client SDK and CLI for the Lab402 autonomous-laboratory marketplace",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		hasCoord = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")
	},
}

// loadCatalog returns the built-in seed catalog, or the --catalog YAML
// override when one was given.
func loadCatalog() *market.Catalog {
	if catalogFile == "" {
		return market.DefaultCatalog()
	}
	catalog, err := LoadCatalogFile(catalogFile)
	if err != nil {
		logrus.Fatalf("unable to load catalog %s: %v", catalogFile, err)
	}
	return catalog
}

func newOptimizer() *market.CostOptimizer {
	opt, err := market.NewCostOptimizer(loadCatalog())
	if err != nil {
		logrus.Fatalf("unable to build optimizer: %v", err)
	}
	return opt
}

func mustInstrument() market.InstrumentKind {
	kind, err := market.ParseInstrument(instrument)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return kind
}

func buildConstraints() market.Constraints {
	p, err := market.ParsePriority(priority)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return market.Constraints{
		Priority:               p,
		MaxCost:                maxCost,
		MinQuality:             minQuality,
		MaxTime:                maxTime,
		PreferredLocations:     locations,
		RequiredCertifications: certs,
		ExcludeLabs:            excludeLabs,
	}
}

func buildRequest() market.OptimizeRequest {
	return market.OptimizeRequest{
		Instrument:          mustInstrument(),
		Samples:             samples,
		Constraints:         buildConstraints(),
		IncludeAlternatives: alternatives,
	}
}

// printJSON renders a result value for CLI consumption.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.Fatalf("unable to encode result: %v", err)
	}
	fmt.Println(string(out))
}

// routeCmd selects exactly one provider for a single-unit request
var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Select a single provider for one unit of work",
	Run: func(cmd *cobra.Command, args []string) {
		strat, err := market.ParseStrategy(strategy)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		router := market.NewRouter(loadCatalog())
		opts := market.RoutingOptions{
			Strategy:               strat,
			MaxCost:                maxCost,
			MinQuality:             minQuality,
			MaxDistanceKm:          maxDistance,
			PreferredLocations:     locations,
			ExcludeLabs:            excludeLabs,
			RequiredCertifications: certs,
		}
		if hasCoord {
			opts.CallerCoord = &market.Coordinate{Lat: callerLat, Lon: callerLon}
		}
		sel, err := router.SelectProvider(mustInstrument(), opts)
		if err != nil {
			logrus.Fatalf("routing failed: %v", err)
		}
		printJSON(sel)
	},
}

// optimizeCmd runs the joint provider/model/tier optimization
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Jointly select provider, AI model and compute tier for a batch",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := newOptimizer().Optimize(buildRequest())
		if err != nil {
			logrus.Fatalf("optimization failed: %v", err)
		}
		printJSON(result)
	},
}

// compareCmd prints the ranked price tables
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Show side-by-side price tables with the optimizer's pick marked",
	Run: func(cmd *cobra.Command, args []string) {
		cmp, err := newOptimizer().ComparePrices(buildRequest())
		if err != nil {
			logrus.Fatalf("price comparison failed: %v", err)
		}
		printJSON(cmp)
	},
}

// savingsCmd prints the worst-case savings estimate
var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Estimate savings versus the catalog's worst-case pricing",
	Run: func(cmd *cobra.Command, args []string) {
		est, err := newOptimizer().EstimateSavings(buildRequest())
		if err != nil {
			logrus.Fatalf("savings estimation failed: %v", err)
		}
		printJSON(est)
	},
}

// batchCmd optimizes a batch and dispatches it through the simulated executor
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Optimize a batch, then dispatch it through the simulated executor",
	Run: func(cmd *cobra.Command, args []string) {
		bp, err := market.ParseBatchPriority(batchPriority)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		req := buildRequest()
		result, err := newOptimizer().Optimize(req)
		if err != nil {
			logrus.Fatalf("optimization failed: %v", err)
		}
		quote := market.QuoteBatch(result.Totals.BaseCost, req.Samples, bp)
		logrus.Infof("dispatching %d samples with parallelism %d (%.0f%% discount, $%.2f/sample)",
			quote.Samples, quote.Parallelism, quote.DiscountRate*100, quote.PerSample)

		sim := market.NewExecutionSimulator(market.SimKey(simSeed), 10*time.Millisecond, failureRate)
		exec := market.NewBatchExecutor(sim)
		batch, err := exec.Run(context.Background(), market.BatchJob{
			Instrument:  req.Instrument,
			Samples:     req.Samples,
			Parallelism: quote.Parallelism,
		})
		if err != nil {
			logrus.Fatalf("batch execution failed: %v", err)
		}
		printJSON(struct {
			Quote   market.BatchQuote
			Batch   *market.BatchResult
			Invoice market.Invoice
		}{quote, batch, market.BuildInvoice(result, req.Samples)})
	},
}

// catalogCmd dumps the active catalog
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Dump the active provider/model/tier catalog",
	Run: func(cmd *cobra.Command, args []string) {
		c := loadCatalog()
		printJSON(struct {
			Labs   []*market.Lab
			Models []*market.AIModel
			Tiers  []market.ComputeTier
		}{c.Labs(), c.Models(), c.Tiers()})
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	pf.StringVar(&catalogFile, "catalog-file", "", "YAML catalog file overriding the built-in seed")
	pf.StringVar(&instrument, "instrument", "", "Instrument kind (see 'lab402 catalog')")
	pf.IntVar(&samples, "samples", 1, "Number of samples in the batch")
	pf.StringVar(&priority, "priority", "", "Optimization priority: cost, speed, quality, balanced")
	pf.Float64Var(&maxCost, "max-cost", 0, "Budget ceiling in USD (0 = unset)")
	pf.Float64Var(&minQuality, "min-quality", 0, "Quality floor on the 1-5 scale (0 = unset)")
	pf.StringVar(&maxTime, "max-time", "", "Deadline, e.g. 24h (reporting input only)")
	pf.StringSliceVar(&locations, "locations", nil, "Preferred country codes")
	pf.StringSliceVar(&certs, "certs", nil, "Required certifications, e.g. CLIA,CAP")
	pf.StringSliceVar(&excludeLabs, "exclude", nil, "Lab IDs to exclude")
	pf.BoolVar(&alternatives, "alternatives", false, "Include ranked alternatives")

	routeCmd.Flags().StringVar(&strategy, "strategy", "", "Routing strategy (default balanced)")
	routeCmd.Flags().Float64Var(&maxDistance, "max-distance", 0, "Distance cap in km (requires --lat/--lon)")
	routeCmd.Flags().Float64Var(&callerLat, "lat", 0, "Caller latitude")
	routeCmd.Flags().Float64Var(&callerLon, "lon", 0, "Caller longitude")

	batchCmd.Flags().StringVar(&batchPriority, "batch-priority", "", "Dispatch priority: high, normal, low")
	batchCmd.Flags().Int64Var(&simSeed, "seed", 42, "Seed for the simulated executor")
	batchCmd.Flags().Float64Var(&failureRate, "failure-rate", 0, "Simulated per-sample failure probability")

	rootCmd.AddCommand(routeCmd, optimizeCmd, compareCmd, savingsCmd, batchCmd, catalogCmd)
}
