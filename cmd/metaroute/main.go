package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zen-systems/metaroute/pkg/bench"
	"github.com/zen-systems/metaroute/pkg/config"
	"github.com/zen-systems/metaroute/pkg/judge"
	"github.com/zen-systems/metaroute/pkg/oracle"
	"github.com/zen-systems/metaroute/pkg/prompt"
	"github.com/zen-systems/metaroute/pkg/session"
	"github.com/zen-systems/metaroute/pkg/strategy"
)

var (
	configFile  string
	backendFlag string
	modelFlag   string
	promptsDir  string
	recipesDir  string
	debugFlag   bool
	aliases     *config.ModelAliases
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "metaroute",
		Short: "Metacognitive routing engine for LLM reasoning strategies",
		Long: `Metaroute asks the model to assess its own strategy options before
	answering: a metacognitive evaluation scores the available reasoning
	strategies, and numeric thresholds route the problem to direct
	execution, guarded execution with verification, or a synthesis
	fallback.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to routing thresholds file")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "override backend (anthropic, openai, google, deepseek, mock)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "override model (name or alias)")
	rootCmd.PersistentFlags().StringVar(&promptsDir, "prompts", "", "directory of prompt template overrides")
	rootCmd.PersistentFlags().StringVar(&recipesDir, "recipes", "", "directory of strategy recipe overrides")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(solveCmd())
	rootCmd.AddCommand(benchCmd())
	rootCmd.AddCommand(judgeCmd())
	rootCmd.AddCommand(strategiesCmd())
	rootCmd.AddCommand(thresholdsCmd())
	rootCmd.AddCommand(modelsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func solveCmd() *cobra.Command {
	var contextFlag string
	var traceFlag bool
	var twoStageFlag bool

	cmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "Route one problem through the metacognitive pipeline",
		Long: `Runs the full pipeline on a single problem: the model scores its
	strategy options, thresholds pick a route, and the chosen path
	produces the answer.

	Use --trace to print the execution trace as JSON on stderr.
	Use --two-stage to split the evaluation into separate scoring and
	selection calls.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if twoStageFlag {
				cfg.Thresholds.TwoStageEvaluation = true
			}

			s, err := buildSession(cfg)
			if err != nil {
				return err
			}

			result := s.Run(context.Background(), args[0], contextFlag)

			if traceFlag {
				fmt.Fprintln(os.Stderr, result.Trace.JSON())
			}
			fmt.Println(result.FinalAnswer)
			return nil
		},
	}

	cmd.Flags().StringVar(&contextFlag, "context", "", "supporting context for the problem")
	cmd.Flags().BoolVar(&traceFlag, "trace", false, "print the execution trace as JSON on stderr")
	cmd.Flags().BoolVar(&twoStageFlag, "two-stage", false, "use separate scoring and selection calls")

	return cmd
}

func benchCmd() *cobra.Command {
	var benchmarkFlag string
	var dataDir string
	var outDir string
	var limitFlag int
	var mrpFlag bool

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a benchmark and write a results CSV",
		Long: `Loads a benchmark dataset, routes every problem through the
	pipeline, and writes one timestamped results CSV.

	Use --mrp to run the meta-reasoning-prompting baseline instead of
	the routed pipeline; the results land in the same format so the
	judge can score both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if benchmarkFlag == "" {
				return fmt.Errorf("--benchmark is required (supported: %v)", bench.Benchmarks)
			}

			problems, err := bench.Load(dataDir, benchmarkFlag, limitFlag)
			if err != nil {
				return err
			}
			if len(problems) == 0 {
				return fmt.Errorf("benchmark %q has no problems", benchmarkFlag)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var solver bench.Solver
			label := "metaroute"
			if mrpFlag {
				solver, err = buildMRPBaseline(cfg)
				label = "mrp"
			} else {
				solver, err = buildSession(cfg)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Running %s on %d problems from %s\n", label, len(problems), benchmarkFlag)
			rows := bench.NewRunner(solver, debugFlag).Run(context.Background(), problems)

			path, err := bench.WriteResults(outDir, label, benchmarkFlag, rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Results saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&benchmarkFlag, "benchmark", "", "benchmark name (required)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data/benchmarks", "benchmarks root directory")
	cmd.Flags().StringVar(&outDir, "out", "results/scores", "results output directory")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "limit the number of problems (0 runs all)")
	cmd.Flags().BoolVar(&mrpFlag, "mrp", false, "run the meta-reasoning-prompting baseline")

	return cmd
}

func judgeCmd() *cobra.Command {
	var judgeModels []string
	var baselineFlag bool

	cmd := &cobra.Command{
		Use:   "judge [results.csv]",
		Short: "Score a results file with LLM judges",
		Long: `Scores every row of a benchmark results file with one or more
	judge models and writes an evaluated_<name> copy with one verdict
	column per judge.

	Routed results are scored on task success, strategy quality, and
	decision rationality; use --baseline for result files without an
	execution log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			backends, err := createBackends(cfg)
			if err != nil {
				return err
			}

			ports := make(map[string]oracle.Port, len(judgeModels))
			for _, name := range judgeModels {
				model := aliases.Resolve(name)
				provider := aliases.GetProviderForModel(model)
				backend, ok := backends[provider]
				if !ok {
					return fmt.Errorf("no backend available for judge model %q", name)
				}
				ports[name] = oracle.NewPort(backend, model)
			}

			prompts, err := prompt.Load(promptsDir)
			if err != nil {
				return err
			}

			j := judge.New(ports, prompts, !baselineFlag, debugFlag)
			output, err := j.Evaluate(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Evaluated results saved to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&judgeModels, "judges", []string{"quality"}, "judge model names or aliases")
	cmd.Flags().BoolVar(&baselineFlag, "baseline", false, "score with the baseline rubric (no execution log)")

	return cmd
}

func strategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List available reasoning strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher, err := strategy.NewDispatcher(nil, prompt.Defaults(), recipesDir)
			if err != nil {
				return err
			}

			names := dispatcher.Strategies()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func thresholdsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thresholds",
		Short: "Show the active routing thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			t := cfg.Thresholds

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "THRESHOLD\tVALUE")
			fmt.Fprintf(w, "confident_score_min\t%.1f\n", t.ConfidentScoreMin)
			fmt.Fprintf(w, "confident_confidence_min\t%.2f\n", t.ConfidentConfidenceMin)
			fmt.Fprintf(w, "confident_gap_min\t%.1f\n", t.ConfidentGapMin)
			fmt.Fprintf(w, "synthesis_score_max\t%.1f\n", t.SynthesisScoreMax)
			fmt.Fprintf(w, "synthesis_confidence_max\t%.2f\n", t.SynthesisConfidenceMax)
			fmt.Fprintf(w, "two_stage_evaluation\t%v\n", t.TwoStageEvaluation)
			return w.Flush()
		},
	}
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available backends and models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODELS\tSTATUS")

			providers := aliases.ListProviders()
			if len(providers) == 0 {
				providers = []string{"anthropic", "deepseek", "google", "openai", "mock"}
			}

			for _, provider := range providers {
				models := formatList(aliases.GetProviderModels(provider))
				status := "no key"
				if cfg.HasBackend(provider) || provider == "mock" {
					status = "ready"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", provider, models, status)
			}

			return w.Flush()
		},
	}
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	result := items[0]
	for i := 1; i < len(items); i++ {
		result += ", " + items[i]
	}
	return result
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadWithThresholdsFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	aliases, _ = config.LoadAliasesWithFallback()

	return cfg, nil
}

// buildSession wires the oracle port, prompt library, and strategy
// dispatcher into a routing session per the flags and config.
func buildSession(cfg *config.Config) (*session.Session, error) {
	port, err := selectPort(cfg)
	if err != nil {
		return nil, err
	}

	prompts, err := prompt.Load(promptsDir)
	if err != nil {
		return nil, err
	}

	dispatcher, err := strategy.NewDispatcher(port, prompts, recipesDir)
	if err != nil {
		return nil, err
	}

	return session.New(port, dispatcher,
		session.WithPrompts(prompts),
		session.WithThresholds(cfg.Thresholds),
		session.WithDebug(debugFlag),
	), nil
}

func buildMRPBaseline(cfg *config.Config) (*bench.MRPBaseline, error) {
	port, err := selectPort(cfg)
	if err != nil {
		return nil, err
	}

	prompts, err := prompt.Load(promptsDir)
	if err != nil {
		return nil, err
	}

	dispatcher, err := strategy.NewDispatcher(port, prompts, recipesDir)
	if err != nil {
		return nil, err
	}

	return bench.NewMRPBaseline(port, dispatcher, prompts), nil
}

// selectPort picks the backend and model for this invocation: explicit
// flags win, then the first configured backend in preference order.
func selectPort(cfg *config.Config) (oracle.Port, error) {
	backends, err := createBackends(cfg)
	if err != nil {
		return nil, err
	}

	if backendFlag != "" {
		backend, ok := backends[backendFlag]
		if !ok {
			return nil, fmt.Errorf("backend %q not available", backendFlag)
		}
		model := modelFlag
		if model != "" {
			model = aliases.Resolve(model)
		} else if models := backend.Models(); len(models) > 0 {
			model = models[0]
		}
		return oracle.NewPort(backend, model), nil
	}

	if modelFlag != "" {
		model := aliases.Resolve(modelFlag)
		provider := aliases.GetProviderForModel(model)
		if backend, ok := backends[provider]; ok {
			return oracle.NewPort(backend, model), nil
		}
		return nil, fmt.Errorf("no backend available for model %q", modelFlag)
	}

	for _, provider := range []string{"anthropic", "openai", "google", "deepseek"} {
		backend, ok := backends[provider]
		if !ok {
			continue
		}
		if models := backend.Models(); len(models) > 0 {
			return oracle.NewPort(backend, models[0]), nil
		}
	}
	return nil, fmt.Errorf("no backend configured; set an API key or use --backend mock")
}

func createBackends(cfg *config.Config) (map[string]oracle.Backend, error) {
	backends := make(map[string]oracle.Backend)

	if cfg.AnthropicAPIKey != "" {
		b, err := oracle.NewAnthropicBackend(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic backend: %w", err)
		}
		backends["anthropic"] = b
	}

	if cfg.OpenAIAPIKey != "" {
		b, err := oracle.NewOpenAIBackend(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai backend: %w", err)
		}
		backends["openai"] = b
	}

	if cfg.GoogleAPIKey != "" {
		b, err := oracle.NewGoogleBackend(cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create google backend: %w", err)
		}
		backends["google"] = b
	}

	if cfg.DeepSeekAPIKey != "" {
		b, err := oracle.NewDeepSeekBackend(cfg.DeepSeekAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create deepseek backend: %w", err)
		}
		backends["deepseek"] = b
	}

	backends["mock"] = oracle.NewMockBackend()

	return backends, nil
}
