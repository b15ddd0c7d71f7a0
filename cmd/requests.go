package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DJSaunders1997/GPTeasers/internal/llm"
	"github.com/DJSaunders1997/GPTeasers/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect logged quiz API and LLM requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryRequests(cmd.Context(), store.QueryOpts{
			Limit:   limit,
			Kind:    kind,
			Purpose: purpose,
		})
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}
		printRequests(cmd.OutOrStdout(), events)
		return nil
	},
}

var requestsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetRequest(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}
		if e == nil {
			return fmt.Errorf("request %d not found", id)
		}
		printRequest(cmd.OutOrStdout(), e)
		return nil
	},
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show request counts, token usage and estimated LLM cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().UsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().UsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func printRequests(out io.Writer, events []store.RequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No requests recorded.")
		return
	}

	fmt.Fprintf(out, "%-5s  %-19s  %-4s  %-18s  %-24s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Kind", "Endpoint", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(out, strings.Repeat("─", 110))

	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(out, "%-5d  %-19s  %-4s  %-18s  %-24s  %-6d  %-6d  %-7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Kind,
			truncate(e.Endpoint, 18),
			truncate(e.Model, 24),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

func printRequest(out io.Writer, e *store.RequestEvent) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(out, "ID:        %d\n", e.ID)
	fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Kind:      %s\n", e.Kind)
	fmt.Fprintf(out, "Endpoint:  %s\n", e.Endpoint)
	if e.Model != "" {
		fmt.Fprintf(out, "Model:     %s\n", e.Model)
	}
	if e.Purpose != "" {
		fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
	}
	if e.RunID != "" {
		fmt.Fprintf(out, "Run:       %s\n", e.RunID)
	}
	if e.Status != 0 {
		fmt.Fprintf(out, "Status:    %d\n", e.Status)
	}
	fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
	fmt.Fprintf(out, "Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, part.title)
		fmt.Fprintln(out, sep)
		if part.body != "" {
			fmt.Fprintln(out, part.body)
		} else {
			fmt.Fprintln(out, "(not captured)")
		}
	}
}

func printUsage(out io.Writer, byPurpose, byModel []store.UsageSummary) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(out, "No requests recorded yet.")
		return
	}

	line := strings.Repeat("─", 80)
	fmt.Fprintln(out, "Usage by Purpose")
	fmt.Fprintln(out, line)
	fmt.Fprintf(out, "%-16s  %6s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(out, line)

	var calls, failed, in, outTok int
	for _, u := range byPurpose {
		purpose := u.Purpose
		if purpose == "" {
			purpose = "(none)"
		}
		fmt.Fprintf(out, "%-16s  %6d  %6d  %10d  %10d  %10d  %8d\n",
			truncate(purpose, 16), u.Calls, u.Failures, u.InputTokens, u.OutputTokens,
			u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		failed += u.Failures
		in += u.InputTokens
		outTok += u.OutputTokens
	}
	fmt.Fprintln(out, line)
	fmt.Fprintf(out, "%-16s  %6d  %6d  %10d  %10d  %10d\n",
		"TOTAL", calls, failed, in, outTok, in+outTok)

	// Only LLM calls carry tokens; API calls have no price.
	var priced []store.UsageSummary
	for _, u := range byModel {
		if u.Model != "" && u.InputTokens+u.OutputTokens > 0 {
			priced = append(priced, u)
		}
	}
	if len(priced) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Estimated LLM Cost (USD)")
	fmt.Fprintln(out, line)
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(out, line)

	var total float64
	var unknown []string
	for _, u := range priced {
		cost := llm.LookupCost(u.Model)
		if cost == nil {
			unknown = append(unknown, u.Model)
			fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
	}

	fmt.Fprintln(out, line)
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	requestsListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	requestsListCmd.Flags().StringP("kind", "k", "", "Filter by kind (api or llm)")
	requestsListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. question-gen)")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsViewCmd)
	requestsCmd.AddCommand(requestsStatsCmd)
}
