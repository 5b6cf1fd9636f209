package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnify/internal/config"
	"github.com/abhisek/learnify/internal/store"
	"github.com/abhisek/learnify/internal/taxonomy"
)

var rootCmd = &cobra.Command{
	Use:   "learnify",
	Short: "Practice thinking at every level of Bloom's taxonomy",
	Long: `Learnify expands your questions across the six levels of Bloom's taxonomy,
collects your answers, scores them with a language model and recommends what
to practice next.

Configure a model with LEARNIFY_LLM_PROVIDER and its LEARNIFY_*_API_KEY, or
export one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or
OPENROUTER_API_KEY. Set LEARNIFY_DOTENV=1 to read them from ./.env.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides LEARNIFY_DB)")
	flags.String("output-dir", "", "Directory for result files (overrides LEARNIFY_OUTPUT_DIR)")
	flags.String("weights", "", "Level weights, e.g. Remember=0.3,Apply=0.2 (overrides LEARNIFY_WEIGHTS)")
	flags.String("audience", "", "Who recommendations address: general, teacher or student")
	flags.String("language", "", "Language recorded with the run: English, French, Spanish, German or Chinese")

	rootCmd.Flags().String("resume", "", "Reopen a saved run by ID or ID prefix")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment, then applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if _, err := config.LoadDotenv(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := flags.GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := flags.GetString("audience"); v != "" {
		cfg.Audience = v
	}
	if v, _ := flags.GetString("language"); v != "" {
		cfg.Language = v
	}
	if v, _ := flags.GetString("weights"); v != "" {
		w, err := taxonomy.ParseWeights(v)
		if err != nil {
			return cfg, fmt.Errorf("--weights: %w", err)
		}
		cfg.Weights = w
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the configured database path (--db, then
// LEARNIFY_DB), or the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
