package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/DJSaunders1997/GPTeasers/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show, export or clear past quiz scores",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed quizzes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.History().Load(cmd.Context())
		if err != nil {
			return userError("load history", err)
		}
		printHistory(cmd.OutOrStdout(), entries, limit)
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the history as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.History().Load(cmd.Context())
		if err != nil {
			return userError("load history", err)
		}
		return exportHistory(cmd.OutOrStdout(), entries, format)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.History()
		entries, err := repo.Load(cmd.Context())
		if err != nil {
			return userError("load history", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "History is already empty.")
			return nil
		}

		if !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Clear all %d quiz results? [y/N] ", len(entries))
			if !confirmed(cmd.InOrStdin()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := repo.Clear(cmd.Context()); err != nil {
			return userError("clear history", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func printHistory(out io.Writer, entries []store.HistoryEntry, limit int) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No quizzes played yet.")
		return
	}

	entries = slices.Clone(entries)
	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	fmt.Fprintf(out, "%-16s  %-30s  %-6s  %-24s  %7s  %4s\n",
		"Finished", "Topic", "Level", "Model", "Score", "Acc")
	fmt.Fprintln(out, strings.Repeat("─", 96))
	for _, e := range entries {
		var acc float64
		if e.TotalQuestions > 0 {
			acc = float64(e.Score) / float64(e.TotalQuestions) * 100
		}
		fmt.Fprintf(out, "%-16s  %-30s  %-6s  %-24s  %3d/%-3d  %3.0f%%\n",
			e.FinishedAt.Local().Format("2006-01-02 15:04"),
			truncate(e.Topic, 30),
			e.Difficulty,
			truncate(e.Model, 24),
			e.Score, e.TotalQuestions,
			acc,
		)
	}
}

func exportHistory(out io.Writer, entries []store.HistoryEntry, format string) error {
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func confirmed(in io.Reader) bool {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 0, "Number of quizzes to show (0 = all)")
	historyExportCmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	historyClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
}
