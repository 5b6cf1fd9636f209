package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learnify/internal/answers"
	"github.com/abhisek/learnify/internal/logging"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/stageerr"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every stage in the terminal, one answer per line",
	Long: `Run loads a question file, generates six sub-questions per question and
reads one answer per line from standard input. An empty line leaves the
question unanswered. It then scores the answers, prints the taxonomy profile
and the recommendations, and lists the files it saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, _ := cmd.Flags().GetString("questions")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateLLM(); err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		logger, closeLog, err := logging.New(logging.Options{
			Mode:         cfg.LogMode,
			File:         cfg.LogFile,
			Console:      cmd.ErrOrStderr(),
			ConsoleLevel: zap.WarnLevel,
		})
		if err != nil {
			return fmt.Errorf("set up logging: %w", err)
		}
		defer closeLog()

		text, err := os.ReadFile(questions)
		if err != nil {
			return fmt.Errorf("read questions: %w", err)
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := buildPipeline(cmd.Context(), cfg, st, logger)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		return runLines(cmd.Context(), p, lineSession{
			Name:      filepath.Base(questions),
			Text:      string(text),
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
			Threshold: cfg.FocusThreshold,
		})
	},
}

// lineSession is the input and output of a line-oriented run.
type lineSession struct {
	Name      string
	Text      string
	In        io.Reader
	Out       io.Writer
	Threshold float64
}

// runLines drives p through every stage. Answers are read one per line;
// at end of input the remaining questions stay unanswered. Stage failures
// are returned as the message a learner sees.
func runLines(ctx context.Context, p *pipeline.Pipeline, s lineSession) error {
	out := s.Out
	if err := p.Ingest(ctx, s.Name, s.Text); err != nil {
		return err
	}

	fmt.Fprintln(out, "Generating questions...")
	if err := p.Expand(ctx); err != nil {
		return errors.New(stageerr.UserMessage(err))
	}

	items := answers.Items(p.State().Questions)
	responses := answers.Responses{}
	scanner := bufio.NewScanner(s.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	open := true
	topic := -1
	for i, it := range items {
		if it.Key.Topic != topic {
			topic = it.Key.Topic
			fmt.Fprintf(out, "\nTopic %d: %s\n", topic+1, it.OriginalQuestion)
		}
		fmt.Fprintf(out, "\n[%d/%d] %s: %s\n", i+1, len(items), it.Key.Level, it.Question)
		fmt.Fprintf(out, "  (%s)\n> ", it.Prompt)
		if !open {
			fmt.Fprintln(out)
			continue
		}
		if !scanner.Scan() {
			open = false
			fmt.Fprintln(out)
			continue
		}
		responses.Set(it.Key, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read answers: %w", err)
	}
	fmt.Fprintf(out, "\n%d of %d questions answered.\n", responses.Answered(), len(items))

	if err := p.SubmitAnswers(ctx, responses); err != nil {
		if p.State().Answers == nil {
			return err
		}
		fmt.Fprintln(out, "Warning:", stageerr.UserMessage(err))
	}

	fmt.Fprintln(out, "Scoring your answers...")
	if err := p.Score(ctx); err != nil {
		if p.State().Scored == nil {
			printArtifacts(out, p.State().Artifacts)
			return errors.New(stageerr.UserMessage(err))
		}
		fmt.Fprintln(out, "Warning:", stageerr.UserMessage(err))
	}
	fmt.Fprintln(out)
	printProfile(out, p.State().Evaluation, s.Threshold)

	fmt.Fprintf(out, "\nWriting recommendations for the %s audience...\n", p.State().Audience)
	recErr := p.Recommend(ctx)
	if text := p.State().Recommendations; text != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, rule())
		fmt.Fprintln(out, text)
		fmt.Fprintln(out, rule())
	}
	printArtifacts(out, p.State().Artifacts)
	if recErr != nil {
		if p.State().Recommendations == "" {
			return errors.New(stageerr.UserMessage(recErr))
		}
		fmt.Fprintln(out, "Warning:", stageerr.UserMessage(recErr))
	}
	return nil
}

func init() {
	runCmd.Flags().StringP("questions", "q", "", "Plain-text file with the questions to practice")
	_ = runCmd.MarkFlagRequired("questions")
}
