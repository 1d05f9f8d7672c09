package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "sitearchitect",
		Short: "Constraint-driven site layout generation and optimization",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(generateCmd(&verbose))
	rootCmd.AddCommand(evolveCmd(&verbose))
	rootCmd.AddCommand(analyzeCmd(&verbose))
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd(&verbose))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger creates a timestamped logger on stderr. Debug messages are
// shown only with --verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}

// batchFlags are the generation parameters shared by generate, evolve, and
// analyze. A zero Seed with seedSet false means a time-based seed.
type batchFlags struct {
	layouts             int
	maxTries            int
	minBuildings        int
	maxBuildings        int
	attemptsPerBuilding int
	fillExtra           int
	seed                int64
	seedSet             bool
	outputDir           string
	exportJSON          bool
	exportCSV           bool
	png                 bool
	dbPath              string
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.layouts, "layouts", 4, "number of layouts to produce")
	cmd.Flags().IntVar(&f.maxTries, "max-tries", 800, "attempts to search for valid layouts")
	cmd.Flags().IntVar(&f.minBuildings, "min-buildings", 5, "minimum buildings per layout")
	cmd.Flags().IntVar(&f.maxBuildings, "max-buildings", 12, "maximum buildings per layout")
	cmd.Flags().IntVar(&f.attemptsPerBuilding, "attempts-per-building", 120, "placement retries per building")
	cmd.Flags().IntVar(&f.fillExtra, "fill-extra", 2, "greedy extra buildings to try adding after a valid draft")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed for reproducibility")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "outputs", "directory for rendered and exported files")
	cmd.Flags().BoolVar(&f.exportJSON, "export-json", false, "export each layout as JSON")
	cmd.Flags().BoolVar(&f.exportCSV, "export-csv", false, "export summary statistics as CSV")
	cmd.Flags().BoolVar(&f.png, "png", true, "render each layout as PNG")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite database path for run history")
}

func (f *batchFlags) resolveSeed(cmd *cobra.Command) int64 {
	f.seedSet = cmd.Flags().Changed("seed")
	if f.seedSet {
		return f.seed
	}
	return time.Now().UnixNano()
}

// evolveFlags extend batchFlags with the evolution parameters.
type evolveFlags struct {
	batchFlags
	generations    int
	populationSize int
	mutationRate   float64
}

func (f *evolveFlags) register(cmd *cobra.Command) {
	f.batchFlags.register(cmd)
	cmd.Flags().IntVar(&f.generations, "generations", 100, "number of evolution generations")
	cmd.Flags().IntVar(&f.populationSize, "population-size", 20, "population size for evolution")
	cmd.Flags().Float64Var(&f.mutationRate, "mutation-rate", 0.3, "mutation rate (0.0-1.0)")
}

func generateCmd(verbose *bool) *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Generate valid layouts by randomized search",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.seed = flags.resolveSeed(cmd)
			return runGenerate(projectPath(args), flags, newLogger(os.Stderr, *verbose))
		},
	}
	flags.register(cmd)
	return cmd
}

func evolveCmd(verbose *bool) *cobra.Command {
	var flags evolveFlags

	cmd := &cobra.Command{
		Use:   "evolve [project-path]",
		Short: "Generate layouts and improve them with the evolutionary optimizer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.seed = flags.resolveSeed(cmd)
			return runEvolve(projectPath(args), flags, newLogger(os.Stderr, *verbose))
		},
	}
	flags.register(cmd)
	return cmd
}

func analyzeCmd(verbose *bool) *cobra.Command {
	var flags evolveFlags

	cmd := &cobra.Command{
		Use:   "analyze [project-path]",
		Short: "Compare random search against evolutionary optimization",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.seed = flags.resolveSeed(cmd)
			return runAnalyze(projectPath(args), flags, newLogger(os.Stderr, *verbose))
		},
	}
	flags.register(cmd)
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate the site configuration without generating layouts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(projectPath(args))
		},
	}
}

func serveCmd(verbose *bool) *cobra.Command {
	var port int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the HTTP API server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runServe(projectPath(args), port, dbPath, newLogger(os.Stderr, *verbose))
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path for run history")
	return cmd
}

// projectPath defaults to the working directory when no argument is given,
// so the reference configuration works without any project files.
func projectPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
