package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/app"
	"github.com/DJSaunders1997/GPTeasers/internal/config"
	"github.com/DJSaunders1997/GPTeasers/internal/logging"
	"github.com/DJSaunders1997/GPTeasers/internal/store"
)

// Loaded by the root PersistentPreRunE before any command runs.
var (
	cfg      *config.Config
	logger   = zap.NewNop()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "gpteasers",
	Short: "AI-generated trivia quizzes in your terminal",
	Long: "GPTeasers streams multiple-choice quizzes on any topic from an AI quiz API\n" +
		"(or a local LLM provider) and keeps a history of your scores.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the command line until ctx is cancelled. The log is flushed
// and closed on every exit path, including failed commands.
func Execute(ctx context.Context) error {
	defer func() {
		_ = closeLog()
		closeLog = func() error { return nil }
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentPreRunE = loadRuntime

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.String("db", "", "Path to SQLite database file (overrides GPTEASERS_DB env var)")
	pf.String("api-url", "", "Quiz API base URL")
	pf.Duration("timeout", 0, "Timeout for image and model requests")
	pf.String("source", "", "Question source: remote or local")
	pf.String("model", "", "AI model used to write the questions")
	pf.Int("count", 0, "Number of questions per quiz")
	pf.String("difficulty", "", "Quiz difficulty: Easy, Medium or Hard")
	pf.String("log-file", "", "Log file path")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadRuntime reads the configuration and opens the log. The TUI owns the
// terminal, so only subcommands echo warnings to stderr.
func loadRuntime(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("config")
	c, err := config.Load(config.Options{
		File:     file,
		EnvFiles: []string{".env"},
		Flags:    cmd.Flags(),
	})
	if err != nil {
		return err
	}
	cfg = c

	var console io.Writer
	if cmd.HasParent() {
		console = cmd.ErrOrStderr()
	}
	l, closer, err := logging.New(logging.Options{
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
		Console: console,
	})
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	logger, closeLog = l, closer
	logger.Debug("configuration loaded",
		zap.String("command", cmd.CommandPath()),
		zap.String("source", cfg.Source),
		zap.String("api", cfg.API.BaseURL))
	return nil
}

// resolveDBPath returns the database path using --db or the db config key
// (highest priority), then GPTEASERS_DB, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// quizStorage is the persistence a quiz runs with. history and events are
// nil when the store could not be opened.
type quizStorage struct {
	history app.HistoryStore
	events  store.EventRepo
	close   func() error
}

// openQuizStorage opens the store for playing. A storage failure is logged
// and the quiz runs without history or request records.
func openQuizStorage() quizStorage {
	st, err := openStore()
	if err != nil {
		logger.Warn("history unavailable, playing without it", zap.Error(err))
		return quizStorage{close: func() error { return nil }}
	}
	return quizStorage{history: st.History(), events: st.EventRepo(), close: st.Close}
}
