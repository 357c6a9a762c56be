package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"mentai-server/models"
)

// ChatClient calls the platform chat assistant endpoint.
type ChatClient struct {
	http *resty.Client
}

func NewChatClient(baseURL string, timeout time.Duration) *ChatClient {
	return &ChatClient{
		http: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

// Ask sends a question and returns the assistant's answer.
func (c *ChatClient) Ask(ctx context.Context, query string) (*models.ChatResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ChatRequest{Query: query}).
		Post("/chat/")
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("chat request rejected with status %d", resp.StatusCode())
	}

	var answer models.ChatResponse
	if err := json.Unmarshal(resp.Body(), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	return &answer, nil
}
