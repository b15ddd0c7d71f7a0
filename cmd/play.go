package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DJSaunders1997/GPTeasers/internal/game"
	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
)

var playCmd = &cobra.Command{
	Use:   "play <topic>",
	Short: "Play a quiz in plain line mode",
	Long: "Play a quiz without the full-screen interface. Questions are printed as\n" +
		"they arrive; answer each with A, B or C.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		settings := defaultSettings(ctx, src)
		settings.Topic = strings.Join(args, " ")

		g, err := game.New(game.Deps{
			Source:  src.Source,
			Images:  client,
			History: st.history,
			Logger:  logger,
		}, settings)
		if err != nil {
			return userError("invalid quiz settings", err)
		}
		defer g.Close()

		withImage, _ := cmd.Flags().GetBool("image")
		return playLines(ctx, g, cmd.InOrStdin(), cmd.OutOrStdout(), withImage)
	},
}

func init() {
	playCmd.Flags().Bool("image", false, "Also fetch an AI image for the topic")
}

// playLines runs g on plain text streams. The topic image, when requested,
// is fetched alongside the question stream and printed with the results.
func playLines(ctx context.Context, g *game.Game, in io.Reader, out io.Writer, withImage bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	set := g.Settings()
	fmt.Fprintf(out, "%s quiz on %q (%d questions, %s)\n", set.Difficulty, set.Topic, set.Count, modelLabel(set.Model))
	fmt.Fprintln(out, "Generating questions...")

	var imageLine string
	grp, gctx := errgroup.WithContext(ctx)
	if withImage {
		grp.Go(func() error {
			ref, err := g.FetchImage(gctx)
			if err != nil {
				// The quiz goes on without an image.
				logger.Warn("topic image unavailable", zap.Error(err))
				imageLine = game.UserMessage(err)
				return nil
			}
			imageLine = "Image: " + ref
			return nil
		})
	}

	st := g.StartAsync(ctx)
	scanner := bufio.NewScanner(in)
	var finished bool

	for q := range st.Questions() {
		res, err := askLine(ctx, g, q, scanner, out)
		if err != nil {
			cancel()
			_ = grp.Wait()
			return err
		}
		printResult(out, res)
		finished = res.IsFinished
	}

	streamErr := <-st.Done()
	if err := grp.Wait(); err != nil {
		return err
	}
	if withImage && imageLine != "" {
		fmt.Fprintf(out, "\n%s\n", imageLine)
	}

	if streamErr != nil && !finished {
		return userError("quiz stream failed", streamErr)
	}
	sum := g.Session().Summary()
	fmt.Fprintf(out, "\nFinal score: %d/%d (%.0f%%)\n", sum.Score, sum.Total, sum.Accuracy*100)
	return nil
}

// askLine prints q and reads lines until one holds a valid option.
func askLine(ctx context.Context, g *game.Game, q quiz.Question, scanner *bufio.Scanner, out io.Writer) (quiz.AnswerResult, error) {
	fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", g.Session().CurrentIndex()+1, g.Settings().Count, q.Text)
	for _, o := range q.Options() {
		fmt.Fprintf(out, "  %s) %s\n", o.Key, o.Text)
	}

	for {
		fmt.Fprint(out, "Your answer (A/B/C): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return quiz.AnswerResult{}, err
			}
			return quiz.AnswerResult{}, errors.New("quiz abandoned")
		}
		key := quiz.NormalizeKey(scanner.Text())
		if !slices.Contains(quiz.OptionKeys, key) {
			continue
		}
		if res, ok := g.Answer(ctx, key); ok {
			return res, nil
		}
	}
}

func printResult(out io.Writer, res quiz.AnswerResult) {
	if res.Correct {
		fmt.Fprintln(out, "Correct!")
	} else {
		answer := res.Answer
		for _, o := range res.Options {
			if o.Key == res.Answer {
				answer = fmt.Sprintf("%s) %s", o.Key, o.Text)
			}
		}
		fmt.Fprintf(out, "Not quite. The answer is %s\n", answer)
	}
	if res.Explanation != "" {
		fmt.Fprintln(out, res.Explanation)
	}
	if res.Wikipedia != "" {
		fmt.Fprintf(out, "Read more: %s\n", res.Wikipedia)
	}
	fmt.Fprintf(out, "Score: %d/%d\n", res.Score, res.TotalQuestions)
}

func modelLabel(model string) string {
	if model == "" {
		return "default model"
	}
	return model
}
