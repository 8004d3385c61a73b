// Package kb talks to an Amazon Bedrock knowledge base: retrieval,
// retrieval-augmented generation, and knowledge-base metadata.
package kb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	rttypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"

	"github.com/abhisek/studybuddy/internal/logger"
)

// defaultModelTemplate is the foundation model used for generation when no
// model ARN is configured. %s is the region.
const defaultModelTemplate = "arn:aws:bedrock:%s::foundation-model/anthropic.claude-3-sonnet-20240229-v1:0"

// DefaultModelARN returns the default generation model ARN for region.
func DefaultModelARN(region string) string {
	return fmt.Sprintf(defaultModelTemplate, region)
}

// ErrNoKnowledgeBase is returned when no knowledge base id is configured.
var ErrNoKnowledgeBase = errors.New("knowledge base id is required (use --kb-id or set KB_ID)")

// Config identifies the knowledge base and generation model.
type Config struct {
	KnowledgeBaseID string
	Region          string

	// ModelARN is the model used by RetrieveAndGenerate. Empty uses
	// DefaultModelARN(Region).
	ModelARN string
}

// runtimeAPI is the subset of the Bedrock Agent Runtime client used here.
type runtimeAPI interface {
	RetrieveAndGenerate(ctx context.Context, in *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
	Retrieve(ctx context.Context, in *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
}

// agentAPI is the subset of the Bedrock Agent control-plane client used here.
type agentAPI interface {
	GetKnowledgeBase(ctx context.Context, in *bedrockagent.GetKnowledgeBaseInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.GetKnowledgeBaseOutput, error)
	ListDataSources(ctx context.Context, in *bedrockagent.ListDataSourcesInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.ListDataSourcesOutput, error)
}

// Client queries a single knowledge base.
type Client struct {
	cfg     Config
	runtime runtimeAPI
	agent   agentAPI
	log     *logger.Logger
}

// New creates a Client using the default AWS credential chain.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.KnowledgeBaseID) == "" {
		return nil, ErrNoKnowledgeBase
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return newClient(cfg, bedrockagentruntime.NewFromConfig(awsCfg), bedrockagent.NewFromConfig(awsCfg), log), nil
}

func newClient(cfg Config, rt runtimeAPI, ag agentAPI, log *logger.Logger) *Client {
	if cfg.ModelARN == "" {
		cfg.ModelARN = DefaultModelARN(cfg.Region)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		cfg:     cfg,
		runtime: rt,
		agent:   ag,
		log:     log.With("component", "kb", "kb_id", cfg.KnowledgeBaseID),
	}
}

// KnowledgeBaseID returns the configured knowledge base id.
func (c *Client) KnowledgeBaseID() string { return c.cfg.KnowledgeBaseID }

// ModelARN returns the generation model ARN.
func (c *Client) ModelARN() string { return c.cfg.ModelARN }

// WithModel returns a copy of c that generates with modelARN.
func (c *Client) WithModel(modelARN string) *Client {
	cp := *c
	if modelARN != "" {
		cp.cfg.ModelARN = modelARN
	}
	return &cp
}

// RetrieveAndGenerate retrieves passages relevant to query and asks the
// configured model to answer prompt using them. It returns the generated
// text unmodified.
func (c *Client) RetrieveAndGenerate(ctx context.Context, query, prompt string, numResults int) (string, error) {
	start := time.Now()
	in := &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &rttypes.RetrieveAndGenerateInput{
			Text: aws.String(query + "\n\n" + prompt),
		},
		RetrieveAndGenerateConfiguration: &rttypes.RetrieveAndGenerateConfiguration{
			Type: rttypes.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &rttypes.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId:        aws.String(c.cfg.KnowledgeBaseID),
				ModelArn:               aws.String(c.cfg.ModelARN),
				RetrievalConfiguration: vectorSearch(numResults),
			},
		},
	}

	out, err := c.runtime.RetrieveAndGenerate(ctx, in)
	if err != nil {
		c.log.Warn("retrieve and generate failed", "error", err)
		return "", fmt.Errorf("retrieve and generate: %w", err)
	}
	text := ""
	if out.Output != nil {
		text = aws.ToString(out.Output.Text)
	}
	c.log.Debug("retrieve and generate", "latency_ms", time.Since(start).Milliseconds(), "chars", len(text))
	return text, nil
}

// Passage is one retrieved chunk of source material.
type Passage struct {
	Text   string
	Score  float64
	Source string
}

// Retrieve returns up to numResults passages relevant to query.
func (c *Client) Retrieve(ctx context.Context, query string, numResults int) ([]Passage, error) {
	out, err := c.runtime.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId:        aws.String(c.cfg.KnowledgeBaseID),
		RetrievalQuery:         &rttypes.KnowledgeBaseQuery{Text: aws.String(query)},
		RetrievalConfiguration: vectorSearch(numResults),
	})
	if err != nil {
		c.log.Warn("retrieve failed", "error", err)
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	passages := make([]Passage, 0, len(out.RetrievalResults))
	for _, r := range out.RetrievalResults {
		if r.Content == nil || aws.ToString(r.Content.Text) == "" {
			continue
		}
		p := Passage{
			Text:  aws.ToString(r.Content.Text),
			Score: aws.ToFloat64(r.Score),
		}
		if r.Location != nil && r.Location.S3Location != nil {
			p.Source = aws.ToString(r.Location.S3Location.Uri)
		}
		passages = append(passages, p)
	}
	return passages, nil
}

func vectorSearch(numResults int) *rttypes.KnowledgeBaseRetrievalConfiguration {
	if numResults <= 0 {
		return nil
	}
	return &rttypes.KnowledgeBaseRetrievalConfiguration{
		VectorSearchConfiguration: &rttypes.KnowledgeBaseVectorSearchConfiguration{
			NumberOfResults: aws.Int32(int32(numResults)),
		},
	}
}
