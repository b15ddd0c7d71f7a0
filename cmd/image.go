package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
)

var imageCmd = &cobra.Command{
	Use:   "image <prompt>",
	Short: "Generate an AI image and print its URL",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		if err := quiz.ValidatePrompt(prompt); err != nil {
			return userError("invalid image prompt", err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		client, err := newClient(s.EventRepo())
		if err != nil {
			return err
		}
		ref, err := client.FetchImage(cmd.Context(), prompt)
		if err != nil {
			return userError("fetch image", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ref)
		return nil
	},
}
