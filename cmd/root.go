package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/kb"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studybuddy",
	Short: "Quiz yourself on your study material",
	Long: `studybuddy generates multiple-choice quizzes from an AWS Bedrock knowledge base,
runs them in the terminal and keeps a history of your scores.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Ctrl+C cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describeError(err))
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/studybuddy/config.yaml)")
	pf.String("region", "", "AWS region (overrides AWS_REGION)")
	pf.String("kb-id", "", "Bedrock knowledge base id (overrides KB_ID)")
	pf.String("store", "", "History backend: sqlite, redis or dynamodb")
	pf.String("db", "", "Path to SQLite database file (overrides STUDYBUDDY_DB)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration from the persistent flags and builds
// the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	flags := cmd.Flags()
	file, _ := flags.GetString("config")
	var o config.Overrides
	o.Region, _ = flags.GetString("region")
	o.KnowledgeBaseID, _ = flags.GetString("kb-id")
	o.Store, _ = flags.GetString("store")
	o.DBPath, _ = flags.GetString("db")
	o.LogLevel, _ = flags.GetString("log-level")

	cfg, err := config.Load(config.Options{File: file, Flags: o})
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// resolveDBPath returns the configured database path, then the default
// XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openDB(cfg *config.Config) (*store.DB, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// openHistory opens the configured history backend scoped to the local
// user. The returned DB also holds the LLM request log.
func openHistory(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store.DB, *store.Adapter, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	userID, err := config.UserID(cfg.Dir)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("load user id: %w", err)
	}
	backend, err := store.OpenBackend(ctx, cfg.Store, db)
	if err != nil {
		db.Close()
		return nil, nil, &quiz.StoreError{Op: "open", Cause: err}
	}
	log.Debug("history backend opened", "backend", cfg.Store.Kind, "user_id", userID)
	return db, store.NewAdapter(backend, userID, log), nil
}

// describeError turns known failures into a message with a next step.
func describeError(err error) string {
	var (
		genErr   *quiz.GenerationError
		parseErr *quiz.ParseError
		storeErr *quiz.StoreError
		rateErr  *llm.ErrRateLimit
		unavail  *llm.ErrProviderUnavailable
	)
	switch {
	case errors.Is(err, kb.ErrNoKnowledgeBase):
		return err.Error()
	case errors.As(err, &rateErr):
		return "the model provider is rate limiting requests, try again shortly: " + err.Error()
	case errors.As(err, &unavail):
		return "the model provider is unavailable: " + err.Error()
	case errors.As(err, &genErr):
		return "could not generate questions (check AWS credentials, region and knowledge base id): " + genErr.Cause.Error()
	case errors.As(err, &parseErr):
		return "the generated quiz could not be used: " + parseErr.Error()
	case errors.As(err, &storeErr):
		return "could not access quiz history: " + storeErr.Error()
	}
	return err.Error()
}
