// Package notify implements the chat webhook used for report summaries.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"salestat/internal/domain/useCases"
)

const (
	embedTitle = "📊 Analytics Dashboard"
	embedColor = 0x0099ff
)

// DiscordNotifier posts report summaries to a Discord webhook as embeds.
type DiscordNotifier struct {
	webhookURL string
	http       *http.Client
}

// NewDiscordNotifier creates a notifier for the given webhook URL.
func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// SendSummary posts the summary text as a single embed.
func (n *DiscordNotifier) SendSummary(ctx context.Context, summary string) error {
	payload := webhookPayload{
		Embeds: []embed{{
			Title:       embedTitle,
			Description: summary,
			Color:       embedColor,
			Timestamp:   time.Now().Format(time.RFC3339),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Ensure interface compliance
var _ useCases.Notifier = (*DiscordNotifier)(nil)
