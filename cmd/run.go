package cmd

import (
	"github.com/spf13/cobra"

	"github.com/DJSaunders1997/GPTeasers/internal/app"
	"github.com/DJSaunders1997/GPTeasers/internal/config"
)

// runApp opens the store when it can, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st := openQuizStorage()
	defer st.close()

	client, err := newClient(st.events)
	if err != nil {
		return err
	}
	src, err := newSource(client, st.events)
	if err != nil {
		return err
	}

	status := client.BaseURL()
	if cfg.Source == config.SourceLocal {
		status = "local generation"
	}
	withImage, _ := cmd.Flags().GetBool("image")

	return app.Run(app.Options{
		Source:    src.Source,
		Images:    client,
		History:   st.history,
		Models:    src.Models,
		Defaults:  defaultSettings(ctx, src),
		WithImage: withImage,
		Status:    status,
		Logger:    logger,
	})
}

func init() {
	rootCmd.Flags().Bool("image", true, "Fetch an AI image for each quiz topic")
}
