package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"mentai-server/models"
)

// ProgressClient talks to the platform progress store. Pushes are best-effort
// from the caller's perspective; this client just reports the outcome and the
// caller decides to drop it.
type ProgressClient struct {
	http *resty.Client
}

func NewProgressClient(baseURL string, timeout time.Duration) *ProgressClient {
	return &ProgressClient{
		http: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

// Push records a quiz completion. Each call is independent; the store
// overwrites on same module + user, so there is no ordering concern here.
func (c *ProgressClient) Push(ctx context.Context, record models.ProgressRecord) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		Post("/progress/update/")
	if err != nil {
		return fmt.Errorf("progress push failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("progress push rejected with status %d", resp.StatusCode())
	}
	return nil
}

// Dashboard lists the user's course progress for the dashboard page.
func (c *ProgressClient) Dashboard(ctx context.Context, email string) ([]models.CourseProgress, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("email", email).
		Get("/dashboard/")
	if err != nil {
		return nil, fmt.Errorf("dashboard request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("dashboard request rejected with status %d", resp.StatusCode())
	}

	var body struct {
		Courses []models.CourseProgress `json:"courses"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard response: %w", err)
	}
	return body.Courses, nil
}
