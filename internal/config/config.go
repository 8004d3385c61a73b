// Package config assembles the CLI configuration from defaults, an
// optional YAML file, a .env file, environment variables and flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/studybuddy/internal/kb"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/store"
)

// Generator kinds.
const (
	GeneratorKB  = "kb"
	GeneratorLLM = "llm"
)

// DefaultRegion is used when neither config nor AWS_REGION sets one.
const DefaultRegion = "us-east-1"

// Config is the resolved application configuration.
type Config struct {
	Region string `yaml:"region"`

	// KnowledgeBaseID identifies the Bedrock knowledge base.
	KnowledgeBaseID string `yaml:"kb_id"`

	// ModelARN overrides the knowledge base's generation model.
	ModelARN string `yaml:"model_arn"`

	// Generator is "kb" or "llm".
	Generator string `yaml:"generator"`

	Questions        int    `yaml:"questions"`
	Difficulty       string `yaml:"difficulty"`
	RetrievalResults int    `yaml:"retrieval_results"`

	LogLevel string `yaml:"log_level"`

	// DBPath is the local sqlite file. Empty means the default location.
	DBPath string `yaml:"db"`

	Store store.BackendConfig `yaml:"store"`
	LLM   llm.Config          `yaml:"llm"`

	// Dir holds user.json. Not read from the file.
	Dir string `yaml:"-"`
}

// Overrides are command-line values. Empty fields are unset.
type Overrides struct {
	Region          string
	KnowledgeBaseID string
	Store           string
	DBPath          string
	LogLevel        string
}

// Options controls Load.
type Options struct {
	// File is an explicit config path; it must exist. When empty the
	// default path is used if present.
	File string

	// EnvFile is loaded into the environment without overriding
	// variables already set. Defaults to ".env"; a missing file is fine.
	EnvFile string

	Flags Overrides
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Region:           DefaultRegion,
		Generator:        GeneratorKB,
		Questions:        5,
		Difficulty:       string(quiz.DefaultDifficulty),
		RetrievalResults: 5,
		LogLevel:         "warn",
		Store: store.BackendConfig{
			Kind:   store.KindSQLite,
			Redis:  store.RedisConfig{Addr: "localhost:6379"},
			Dynamo: store.DynamoConfig{Table: store.DefaultDynamoTable},
		},
		LLM: llm.DefaultConfig(),
	}
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	cfg.Dir = dir

	file := opts.File
	explicit := file != ""
	if !explicit {
		file = filepath.Join(dir, "config.yaml")
	}
	if err := cfg.loadFile(file, explicit); err != nil {
		return nil, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyFlags(opts.Flags)
	cfg.fill()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	firstEnv(&c.KnowledgeBaseID, "STUDYBUDDY_KB_ID", "KB_ID", "BEDROCK_KB_ID")
	firstEnv(&c.Region, "STUDYBUDDY_REGION", "AWS_REGION", "AWS_DEFAULT_REGION")
	firstEnv(&c.ModelARN, "STUDYBUDDY_MODEL_ARN")
	firstEnv(&c.Generator, "STUDYBUDDY_GENERATOR")
	firstEnv(&c.Difficulty, "STUDYBUDDY_DIFFICULTY")
	firstEnv(&c.LogLevel, "STUDYBUDDY_LOG_LEVEL")
	firstEnv(&c.DBPath, "STUDYBUDDY_DB")

	firstEnv(&c.Store.Kind, "STUDYBUDDY_STORE")
	firstEnv(&c.Store.Redis.Addr, "STUDYBUDDY_REDIS_ADDR", "REDIS_ADDR")
	firstEnv(&c.Store.Redis.Password, "STUDYBUDDY_REDIS_PASSWORD")
	firstEnv(&c.Store.Redis.Prefix, "STUDYBUDDY_REDIS_PREFIX")
	firstEnv(&c.Store.Dynamo.Table, "STUDYBUDDY_DYNAMODB_TABLE")
	firstEnv(&c.Store.Dynamo.Endpoint, "STUDYBUDDY_DYNAMODB_ENDPOINT")

	if v := os.Getenv("STUDYBUDDY_QUESTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STUDYBUDDY_QUESTIONS: %w", err)
		}
		c.Questions = n
	}

	c.LLM.ApplyEnv()
	c.LLM.DiscoverConfig()
	return nil
}

func (c *Config) applyFlags(f Overrides) {
	setIf(&c.Region, f.Region)
	setIf(&c.KnowledgeBaseID, f.KnowledgeBaseID)
	setIf(&c.Store.Kind, f.Store)
	setIf(&c.DBPath, f.DBPath)
	setIf(&c.LogLevel, f.LogLevel)
}

// fill derives settings that default to other settings.
func (c *Config) fill() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Store.Dynamo.Region == "" {
		c.Store.Dynamo.Region = c.Region
	}
	c.Store.Kind = strings.ToLower(c.Store.Kind)
	c.Generator = strings.ToLower(c.Generator)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Generator {
	case GeneratorKB, GeneratorLLM:
	default:
		return fmt.Errorf("unknown generator %q (want kb or llm)", c.Generator)
	}
	switch c.Store.Kind {
	case store.KindSQLite, store.KindRedis, store.KindDynamoDB:
	default:
		return fmt.Errorf("unknown store backend %q (want sqlite, redis or dynamodb)", c.Store.Kind)
	}
	if _, err := quiz.ParseDifficulty(c.Difficulty); err != nil {
		return err
	}
	if c.Questions <= 0 {
		return fmt.Errorf("questions must be positive, got %d", c.Questions)
	}
	return nil
}

// KB returns the knowledge base client settings.
func (c *Config) KB() kb.Config {
	return kb.Config{
		KnowledgeBaseID: c.KnowledgeBaseID,
		Region:          c.Region,
		ModelARN:        c.ModelARN,
	}
}

// DefaultDir is $STUDYBUDDY_CONFIG_DIR, else $XDG_CONFIG_HOME/studybuddy,
// else ~/.config/studybuddy.
func DefaultDir() (string, error) {
	if d := os.Getenv("STUDYBUDDY_CONFIG_DIR"); d != "" {
		return d, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "studybuddy"), nil
}

func firstEnv(dst *string, keys ...string) {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			*dst = v
			return
		}
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
