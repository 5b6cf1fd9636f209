package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnify/internal/evaluation"
	"github.com/abhisek/learnify/internal/taxonomy"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <student_score.json>",
	Short: "Evaluate a saved score file with the current weights",
	Long: `Evaluate recomputes the taxonomy profile from a student_score_*.json file
written by an earlier run. No model is called, so it is a quick way to see
how different --weights change the composite score.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		g, err := readGrouping(args[0])
		if err != nil {
			return err
		}
		printProfile(cmd.OutOrStdout(), evaluation.Evaluate(g, cfg.Weights), cfg.FocusThreshold)
		return nil
	},
}

func readGrouping(path string) (*taxonomy.Grouping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read score file: %w", err)
	}
	var g taxonomy.Grouping
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%s: not a score file: %w", path, err)
	}
	if len(g.Levels) == 0 {
		return nil, fmt.Errorf("%s: no %q levels found", path, "Bloom Taxonomy")
	}
	return &g, nil
}
