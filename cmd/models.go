package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the AI models quizzes can be written by",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		client, err := newClient(s.EventRepo())
		if err != nil {
			return err
		}
		src, err := newSource(client, s.EventRepo())
		if err != nil {
			return err
		}

		current := defaultSettings(cmd.Context(), src).Model
		for _, m := range src.Models(cmd.Context()) {
			marker := " "
			if m == current {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, m)
		}
		return nil
	},
}
