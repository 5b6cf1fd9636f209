package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/screens/history"
	"github.com/abhisek/learnify/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.RunRepo().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs found.")
			return nil
		}
		fmt.Fprintf(out, "%-12s  %-8s  %-11s  %5s  %s\n", "Updated", "ID", "Stage", "Score", "Source")
		fmt.Fprintln(out, rule())
		for _, r := range runs {
			fmt.Fprintln(out, history.RunLine(r))
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a run and its timeline of model calls and files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		run, err := findRun(ctx, s.RunRepo(), args[0])
		if err != nil {
			return err
		}
		events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{RunID: run.ID})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		arts, err := s.ArtifactRepo().ForRun(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("query files: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run:       %s\n", run.ID)
		fmt.Fprintf(out, "Started:   %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Updated:   %s\n", run.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Source:    %s\n", run.SourceName)
		fmt.Fprintf(out, "Language:  %s\n", run.Language)
		fmt.Fprintf(out, "Audience:  %s\n", run.Audience)
		fmt.Fprintf(out, "Stage:     %s\n", run.Stage)
		if run.Composite != nil {
			fmt.Fprintf(out, "Composite: %.2f / 5\n", *run.Composite)
		}
		if len(events) > 0 {
			fmt.Fprintf(out, "LLM cost:  %s\n", costLine(events))
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Timeline")
		fmt.Fprintln(out, rule())
		entries := timeline(events, arts)
		if len(entries) == 0 {
			fmt.Fprintln(out, "(nothing recorded)")
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%6d  %s  %-10s  %s\n", e.seq, e.at.Local().Format("15:04:05"), e.kind, e.detail)
		}
		return nil
	},
}

type timelineEntry struct {
	seq    int64
	at     time.Time
	kind   string
	detail string
}

// timeline merges a run's model calls and files by global sequence.
func timeline(events []store.LLMEvent, arts []store.Artifact) []timelineEntry {
	entries := make([]timelineEntry, 0, len(events)+len(arts))
	for _, e := range events {
		status := "ok"
		if !e.Success {
			status = "failed: " + e.ErrorMessage
		}
		entries = append(entries, timelineEntry{
			seq:  e.Sequence,
			at:   e.Timestamp,
			kind: "llm " + e.Purpose,
			detail: fmt.Sprintf("#%d %s, %d in / %d out, %dms, %s",
				e.ID, e.Model, e.InputTokens, e.OutputTokens, e.LatencyMs, status),
		})
	}
	for _, a := range arts {
		entries = append(entries, timelineEntry{
			seq:    a.Sequence,
			at:     a.Timestamp,
			kind:   "file",
			detail: fmt.Sprintf("%s %s", a.Kind, filepath.Base(a.Path)),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	return entries
}

// findRun looks a run up by full ID, then by unique ID prefix.
func findRun(ctx context.Context, runs store.RunRepo, id string) (*store.Run, error) {
	run, err := runs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run != nil {
		return run, nil
	}

	all, err := runs.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	var matches []store.Run
	for _, r := range all {
		if strings.HasPrefix(r.ID, id) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run %q not found", id)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("run prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}

// restoreRun makes a saved run current in p.
func restoreRun(ctx context.Context, p *pipeline.Pipeline, runs store.RunRepo, id string) error {
	run, err := findRun(ctx, runs, id)
	if err != nil {
		return err
	}
	state, err := pipeline.UnmarshalSnapshot(run.State)
	if err != nil {
		return fmt.Errorf("decode run %s: %w", run.ID, err)
	}
	p.Restore(state)
	return nil
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}

// costLine estimates what a run's model calls cost.
func costLine(events []store.LLMEvent) string {
	total, unpriced := llm.RunCost(events)
	line := fmt.Sprintf("~$%.4f over %d calls", total, len(events))
	if unpriced > 0 {
		line += fmt.Sprintf(" (%d on unpriced models)", unpriced)
	}
	return line
}
