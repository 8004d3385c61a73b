package kb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
)

// Info describes a knowledge base.
type Info struct {
	ID          string
	Name        string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DataSource summarizes one data source attached to a knowledge base.
type DataSource struct {
	ID     string
	Name   string
	Status string
}

// Info fetches the knowledge base metadata.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	out, err := c.agent.GetKnowledgeBase(ctx, &bedrockagent.GetKnowledgeBaseInput{
		KnowledgeBaseId: aws.String(c.cfg.KnowledgeBaseID),
	})
	if err != nil {
		return nil, fmt.Errorf("get knowledge base: %w", err)
	}
	kb := out.KnowledgeBase
	if kb == nil {
		return nil, fmt.Errorf("get knowledge base: empty response")
	}
	return &Info{
		ID:          aws.ToString(kb.KnowledgeBaseId),
		Name:        aws.ToString(kb.Name),
		Description: aws.ToString(kb.Description),
		Status:      string(kb.Status),
		CreatedAt:   aws.ToTime(kb.CreatedAt),
		UpdatedAt:   aws.ToTime(kb.UpdatedAt),
	}, nil
}

// DataSources lists every data source of the knowledge base.
func (c *Client) DataSources(ctx context.Context) ([]DataSource, error) {
	var out []DataSource
	var next *string
	for {
		page, err := c.agent.ListDataSources(ctx, &bedrockagent.ListDataSourcesInput{
			KnowledgeBaseId: aws.String(c.cfg.KnowledgeBaseID),
			NextToken:       next,
		})
		if err != nil {
			return nil, fmt.Errorf("list data sources: %w", err)
		}
		for _, ds := range page.DataSourceSummaries {
			out = append(out, DataSource{
				ID:     aws.ToString(ds.DataSourceId),
				Name:   aws.ToString(ds.Name),
				Status: string(ds.Status),
			})
		}
		if aws.ToString(page.NextToken) == "" {
			return out, nil
		}
		next = page.NextToken
	}
}
