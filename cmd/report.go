package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/learnify/internal/artifacts"
	"github.com/abhisek/learnify/internal/evaluation"
	"github.com/abhisek/learnify/internal/taxonomy"
)

const ruleWidth = 72

func rule() string {
	return strings.Repeat("─", ruleWidth)
}

// printProfile writes the per-level table, the composite score and the
// levels to focus on.
func printProfile(w io.Writer, ev *evaluation.Evaluation, threshold float64) {
	fmt.Fprintf(w, "%-14s  %8s  %8s  %9s\n", "Level", "Average", "Weight", "Weighted")
	fmt.Fprintln(w, rule())
	for _, l := range taxonomy.Levels {
		le := ev.Levels[l]
		fmt.Fprintf(w, "%-14s  %8.2f  %8.3f  %9.3f\n", l, le.AverageScore, le.Weight, le.WeightedAverage)
	}
	fmt.Fprintln(w, rule())
	fmt.Fprintf(w, "%-14s  %8.2f / 5\n", "Composite", ev.Composite)

	for _, warning := range ev.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}

	focus := ev.BelowThreshold(threshold)
	if len(focus) == 0 {
		fmt.Fprintf(w, "\nEvery level averages at least %.1f.\n", threshold)
		return
	}
	names := make([]string, len(focus))
	for i, l := range focus {
		names[i] = string(l)
	}
	fmt.Fprintf(w, "\nFocus next on: %s\n", strings.Join(names, ", "))
}

// printArtifacts lists the files written for a run in pipeline order.
func printArtifacts(w io.Writer, written map[artifacts.Kind]string) {
	if len(written) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSaved files")
	for _, k := range artifacts.Kinds {
		if path, ok := written[k]; ok {
			fmt.Fprintf(w, "  %-30s %s\n", k, path)
		}
	}
}
