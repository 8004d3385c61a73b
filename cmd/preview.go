package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/questiongen"
	"github.com/abhisek/studybuddy/internal/quiz"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate questions and print them with answers (no quiz, no history)",
	Long: `Generate a quiz and print every question with its answer and explanation.

This is a stateless tool for checking question quality against a knowledge base
or LLM provider. Nothing is saved to quiz history.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	addGenerationFlags(previewCmd)
	previewCmd.Flags().Bool("raw", false, "Also print the unparsed model output")
}

func runPreview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	out := cmd.OutOrStdout()
	req, err := readQuizRequest(cmd, cfg, bufio.NewReader(cmd.InOrStdin()), out)
	if errors.Is(err, quiz.ErrUserAbort) {
		return nil
	}
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	gen, err := buildGenerator(ctx, cfg, req, db.EventRepo(), log)
	if err != nil {
		return err
	}

	greq := questiongen.Request{
		Topic:      req.params.Topic,
		General:    req.params.General,
		Difficulty: req.params.Difficulty,
		Count:      req.params.Count,
	}
	fmt.Fprintf(out, "Generating %d %s questions on %s...\n\n", greq.Count, greq.Difficulty, greq.TopicLabel())

	raw, err := gen.Generate(ctx, greq)
	if err != nil {
		return &quiz.GenerationError{Cause: err}
	}
	if showRaw, _ := cmd.Flags().GetBool("raw"); showRaw {
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(out, "%s\nRAW RESPONSE\n%s\n%s\n%s\n\n", sep, sep, raw, sep)
	}

	questions, err := questiongen.NewParser(questiongen.DefaultConfig().Validators...).Parse(raw, greq.Count)
	if err != nil {
		return err
	}
	printQuestions(out, questions)
	return nil
}

// printQuestions writes each question with its options, answer and
// explanation.
func printQuestions(w io.Writer, questions []quiz.Question) {
	for i := range questions {
		q := &questions[i]
		fmt.Fprintf(w, "── Question %d/%d ──\n", i+1, len(questions))
		fmt.Fprintln(w, q.Prompt)
		for j, c := range q.Choices {
			fmt.Fprintf(w, "  %s. %s\n", quiz.ChoiceLabel(j), c)
		}
		fmt.Fprintf(w, "Answer: %s\n", q.CorrectLabel())
		if q.Explanation != "" {
			fmt.Fprintf(w, "Explanation: %s\n", q.Explanation)
		}
		fmt.Fprintln(w)
	}
}
