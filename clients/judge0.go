package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"mentai-server/models"
)

// Judge0Client proxies code execution to the Judge0 CE API via RapidAPI.
// Submissions are sent base64-encoded with wait=true so the result comes back
// in the same response.
type Judge0Client struct {
	http   *resty.Client
	apiKey string
	host   string
}

func NewJudge0Client(apiKey, host string, timeout time.Duration) *Judge0Client {
	return &Judge0Client{
		http:   resty.New().SetBaseURL("https://" + host).SetTimeout(timeout),
		apiKey: apiKey,
		host:   host,
	}
}

// NewJudge0ClientAt targets an explicit base URL. Test hook.
func NewJudge0ClientAt(baseURL, apiKey, host string, timeout time.Duration) *Judge0Client {
	return &Judge0Client{
		http:   resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey: apiKey,
		host:   host,
	}
}

type judge0Submission struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
	Stdin      string `json:"stdin"`
}

type judge0Response struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message"`
	Status        struct {
		Description string `json:"description"`
	} `json:"status"`
}

// Execute runs source code under the given Judge0 language id and returns the
// decoded outputs.
func (c *Judge0Client) Execute(ctx context.Context, languageID int, sourceCode, stdin string) (*models.ExecuteResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("judge0 api key not configured")
	}

	sub := judge0Submission{
		LanguageID: languageID,
		SourceCode: base64.StdEncoding.EncodeToString([]byte(sourceCode)),
	}
	if stdin != "" {
		sub.Stdin = base64.StdEncoding.EncodeToString([]byte(stdin))
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-RapidAPI-Key", c.apiKey).
		SetHeader("X-RapidAPI-Host", c.host).
		SetQueryParams(map[string]string{
			"base64_encoded": "true",
			"wait":           "true",
		}).
		SetBody(sub).
		Post("/submissions")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to judge0: %w", err)
	}

	var body judge0Response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse judge0 response: %w", err)
	}
	if resp.IsError() {
		msg := body.Message
		if msg == "" {
			msg = "judge0 api error"
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	return &models.ExecuteResult{
		Stdout:        decodeBase64(body.Stdout),
		Stderr:        decodeBase64(body.Stderr),
		CompileOutput: decodeBase64(body.CompileOutput),
		Status:        body.Status.Description,
	}, nil
}

// decodeBase64 tolerates plain-text values: Judge0 only encodes when asked,
// and error payloads arrive unencoded.
func decodeBase64(s string) string {
	if s == "" {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s
	}
	return string(decoded)
}
