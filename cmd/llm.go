package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/query"
	"github.com/abhisek/learnify/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged model requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		runID, _ := cmd.Flags().GetString("run")
		if purpose != "" {
			p, err := llm.ParsePurpose(purpose)
			if err != nil {
				return err
			}
			purpose = string(p)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose, RunID: runID})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printEventList(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one request with its prompt and reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Token usage per stage and estimated cost per model",
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
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func printEventList(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No model requests logged.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-9s  %-8s  %-28s  %6s  %6s  %7s  %s\n",
		"ID", "Timestamp", "Purpose", "Run", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 110))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-9s  %-8s  %-28s  %6d  %6d  %7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Purpose,
			truncate(e.RunID, 8),
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

func printEvent(w io.Writer, e *store.LLMEvent) {
	fmt.Fprintf(w, "ID:        %d\n", e.ID)
	if e.RunID != "" {
		fmt.Fprintf(w, "Run:       %s\n", e.RunID)
	}
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
	fmt.Fprintf(w, "Model:     %s\n", e.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	if e.Success {
		fmt.Fprintf(w, "Reply:     %s\n", replyCheck(llm.Purpose(e.Purpose), e.ResponseBody))
	} else {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}

	for _, section := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, section.title)
		fmt.Fprintln(w, rule())
		if section.body == "" {
			fmt.Fprintln(w, "(not captured)")
		} else {
			fmt.Fprintln(w, section.body)
		}
	}
}

// replyCheck says how a logged reply fares against the checks its stage
// runs. Recommendations are free text and only need content.
func replyCheck(p llm.Purpose, body string) string {
	switch p {
	case llm.PurposeExpand, llm.PurposeScore:
		if err := llm.ValidateJSON(nil, []byte(query.StripFences(body))); err != nil {
			return llm.StageKind(err).String()
		}
		return "JSON"
	default:
		if strings.TrimSpace(body) == "" {
			return "empty"
		}
		return "text"
	}
}

func printUsage(w io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No model usage recorded yet.")
		return
	}

	fmt.Fprintln(w, "Usage by stage")
	fmt.Fprintln(w, rule())
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(w, rule())
	var calls, in, out int
	for _, u := range stageOrder(byPurpose) {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintln(w, rule())
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)

	if len(byModel) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated cost (USD)")
	fmt.Fprintln(w, rule())
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, rule())

	var total float64
	var unpriced []string
	for _, mu := range byModel {
		cost := "?"
		if c := llm.LookupCost(mu.Model); c != nil {
			usd := c.Cost(mu.InputTokens, mu.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n", truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
	}
	fmt.Fprintln(w, rule())
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

// stageOrder lists usage in pipeline order, followed by any other labels
// in the order given.
func stageOrder(usage []store.PurposeUsage) []store.PurposeUsage {
	out := make([]store.PurposeUsage, 0, len(usage))
	stage := map[string]bool{}
	for _, p := range llm.Purposes {
		stage[string(p)] = true
		for _, u := range usage {
			if u.Purpose == string(p) {
				out = append(out, u)
			}
		}
	}
	for _, u := range usage {
		if !stage[u.Purpose] {
			out = append(out, u)
		}
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose: expand, score or recommend")
	llmListCmd.Flags().String("run", "", "Filter by run ID")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
