// Package source implements the client for the hosted sales database.
// It owns pagination and authentication; callers receive the full set of raw
// records per fetch and never see cursors.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"salestat/internal/domain/model"
)

// Config holds the source connection settings, injected at construction.
type Config struct {
	BaseURL    string
	APIKey     string
	APIVersion string
	DatabaseID string
	Timeout    time.Duration
}

// Client queries the hosted database over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a source client from the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []model.RawRecord `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor"`
}

// FetchAll retrieves every record of the sales database, following the
// pagination cursor until the source reports no more pages.
func (c *Client) FetchAll(ctx context.Context) ([]model.RawRecord, error) {
	url := fmt.Sprintf("%s/v1/databases/%s/query", c.cfg.BaseURL, c.cfg.DatabaseID)

	var all []model.RawRecord
	cursor := ""
	for {
		page, err := c.queryPage(ctx, url, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if !page.HasMore {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

func (c *Client) queryPage(ctx context.Context, url, cursor string) (*queryResponse, error) {
	body, err := json.Marshal(queryRequest{StartCursor: cursor})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.cfg.APIVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query sales database: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sales database returned status %d", resp.StatusCode)
	}

	var page queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return &page, nil
}
