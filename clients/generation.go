// Package clients holds the typed HTTP clients for the external
// collaborators: the course generation service, the platform progress store,
// the chat assistant and the Judge0 execution proxy. Each client owns its
// transport; failure handling policy lives with the callers.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"mentai-server/models"
)

// APIError is a structured error payload returned by a collaborator. The
// message is surfaced verbatim to the user for generation failures.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// GenerationClient calls the MentAI course generation service.
type GenerationClient struct {
	http *resty.Client
}

// NewGenerationClient builds a client against the platform base URL, e.g.
// http://localhost:8000/api. Course generation is slow; the timeout must
// cover the full model run.
func NewGenerationClient(baseURL string, timeout time.Duration) *GenerationClient {
	return &GenerationClient{
		http: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

// Generate requests a full course for the topic. A non-2xx response with a
// structured {"error": "..."} body becomes an *APIError carrying that message.
func (c *GenerationClient) Generate(ctx context.Context, topic string) (*models.Course, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"topic": topic}).
		Post("/generate-course/")
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}

	if resp.IsError() {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(resp.Body(), &body)
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: body.Error}
	}

	var course models.Course
	if err := json.Unmarshal(resp.Body(), &course); err != nil {
		return nil, fmt.Errorf("failed to parse generated course: %w", err)
	}
	return &course, nil
}
