package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/kb"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/questiongen"
	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/session"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take a quiz generated from your knowledge base",
	Args:  cobra.NoArgs,
	RunE:  runQuiz,
}

func init() {
	addGenerationFlags(quizCmd)
	quizCmd.Flags().Bool("plain", false, "Use line-based prompts instead of the interactive UI")
}

// addGenerationFlags registers the flags shared by quiz and preview.
func addGenerationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("topic", "t", "", "Topic to quiz on")
	f.Bool("general", false, "Quiz across the whole knowledge base")
	f.StringP("difficulty", "d", "", "Difficulty: easy, medium or hard")
	f.IntP("questions", "n", 0, "Number of questions")
	f.String("model", "", "Bedrock model ARN used for generation")
	f.String("generator", "", "Question source: kb (knowledge base) or llm")
}

// quizRequest is the generation request described by the command line,
// falling back to config for anything unset.
type quizRequest struct {
	params    session.Params
	generator string
	model     string
}

func readQuizRequest(cmd *cobra.Command, cfg *config.Config, in *bufio.Reader, out io.Writer) (quizRequest, error) {
	f := cmd.Flags()
	topic, _ := f.GetString("topic")
	general, _ := f.GetBool("general")
	diffFlag, _ := f.GetString("difficulty")
	count, _ := f.GetInt("questions")
	model, _ := f.GetString("model")
	gen, _ := f.GetString("generator")

	if diffFlag == "" {
		diffFlag = cfg.Difficulty
	}
	difficulty, err := quiz.ParseDifficulty(diffFlag)
	if err != nil {
		return quizRequest{}, err
	}
	if count == 0 {
		count = cfg.Questions
	}
	if gen == "" {
		gen = cfg.Generator
	}
	gen = strings.ToLower(gen)
	if gen != config.GeneratorKB && gen != config.GeneratorLLM {
		return quizRequest{}, fmt.Errorf("unknown generator %q (want kb or llm)", gen)
	}

	topic = strings.TrimSpace(topic)
	if topic == "" && !general {
		topic, err = promptTopic(in, out)
		if err != nil {
			return quizRequest{}, err
		}
	}

	return quizRequest{
		params: session.Params{
			Topic:      topic,
			General:    general || questiongen.IsGeneralTopic(topic),
			Difficulty: difficulty,
			Count:      count,
		},
		generator: gen,
		model:     model,
	}, nil
}

// promptTopic asks for a topic. A blank answer selects a general quiz.
func promptTopic(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter a topic for your quiz (blank for a general quiz): ")
	line, err := in.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	case errors.Is(err, io.EOF):
		return "", quiz.ErrUserAbort
	default:
		return "", fmt.Errorf("read topic: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// buildGenerator wires the question source selected by req.
func buildGenerator(ctx context.Context, cfg *config.Config, req quizRequest, recorder llm.RequestRecorder, log *logger.Logger) (questiongen.Generator, error) {
	gcfg := questiongen.DefaultConfig()
	if cfg.RetrievalResults > 0 {
		gcfg.RetrievalResults = cfg.RetrievalResults
	}

	switch req.generator {
	case config.GeneratorLLM:
		provider, err := llm.NewProvider(ctx, cfg.LLM, recorder, log)
		if err != nil {
			return nil, fmt.Errorf("LLM provider: %w", err)
		}
		// Without a knowledge base the model writes from its own knowledge.
		if cfg.KnowledgeBaseID == "" {
			log.Info("no knowledge base configured, generating without retrieval")
			return questiongen.NewLLMGenerator(provider, nil, gcfg), nil
		}
		client, err := kb.New(ctx, cfg.KB(), log)
		if err != nil {
			return nil, err
		}
		return questiongen.NewLLMGenerator(provider, client, gcfg), nil
	default:
		client, err := kb.New(ctx, cfg.KB(), log)
		if err != nil {
			return nil, err
		}
		return questiongen.NewKBGenerator(client.WithModel(req.model), gcfg), nil
	}
}

// interactive reports whether both stdin and stdout are terminals.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func runQuiz(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	req, err := readQuizRequest(cmd, cfg, in, out)
	if errors.Is(err, quiz.ErrUserAbort) {
		return nil
	}
	if err != nil {
		return err
	}

	db, history, err := openHistory(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()
	defer history.Close()

	gen, err := buildGenerator(ctx, cfg, req, db.EventRepo(), log)
	if err != nil {
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	useTUI := !plain && interactive()

	var prompter session.Prompter
	if useTUI {
		// The TUI needs the terminal itself, not the buffered reader.
		title := questiongen.Request{Topic: req.params.Topic, General: req.params.General}.TopicLabel()
		prompter = session.NewTUIPrompter(cmd.InOrStdin(), out, title)
	} else {
		prompter = session.NewLinePrompter(in, out)
	}

	fmt.Fprintln(out, "Generating your quiz...")
	ctrl := session.New(session.Config{
		Generator: gen,
		Prompter:  prompter,
		Logger:    log,
	})
	s, err := ctrl.Run(ctx, req.params)
	if errors.Is(err, quiz.ErrUserAbort) {
		fmt.Fprintln(out, "\nQuiz aborted. No results were saved.")
		return nil
	}
	if err != nil {
		log.Error("quiz failed", "error", err, "state", ctrl.State().String())
		return err
	}

	if useTUI {
		fmt.Fprintln(out, session.RenderSummary(s))
	} else {
		fmt.Fprintln(out, session.RenderPlainSummary(s))
	}

	if err := history.Save(ctx, s); err != nil {
		return err
	}
	fmt.Fprintln(out, "Results saved.")
	return nil
}
