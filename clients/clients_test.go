package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mentai-server/models"
)

func TestGenerationClientParsesCourse(t *testing.T) {
	var gotTopic string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generate-course/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Topic string `json:"topic"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotTopic = body.Topic

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Course{
			ID:    1,
			Topic: body.Topic,
			Modules: []models.Module{
				{ID: 1, Name: "Intro"},
			},
		})
	}))
	defer srv.Close()

	client := NewGenerationClient(srv.URL, 5*time.Second)
	course, err := client.Generate(context.Background(), "Python")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gotTopic != "Python" {
		t.Errorf("posted topic = %q", gotTopic)
	}
	if course.Topic != "Python" || len(course.Modules) != 1 {
		t.Errorf("course = %+v", course)
	}
}

func TestGenerationClientStructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "Topic too broad"}`))
	}))
	defer srv.Close()

	client := NewGenerationClient(srv.URL, 5*time.Second)
	_, err := client.Generate(context.Background(), "everything")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v; want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "Topic too broad" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestGenerationClientGatewayTimeoutWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	client := NewGenerationClient(srv.URL, 5*time.Second)
	_, err := client.Generate(context.Background(), "Python")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v; want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusGatewayTimeout || apiErr.Message != "" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestProgressClientPush(t *testing.T) {
	var got models.ProgressRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/progress/update/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewProgressClient(srv.URL, 5*time.Second)
	record := models.ProgressRecord{
		Email:       "student@example.com",
		TopicSlug:   "python-basics",
		ModuleID:    7,
		IsCompleted: true,
		QuizScore:   50,
	}
	if err := client.Push(context.Background(), record); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got != record {
		t.Errorf("server saw %+v; want %+v", got, record)
	}
}

func TestProgressClientPushRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewProgressClient(srv.URL, 5*time.Second)
	if err := client.Push(context.Background(), models.ProgressRecord{}); err == nil {
		t.Error("expected error for rejected push")
	}
}

func TestProgressClientDashboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("email") != "student@example.com" {
			t.Errorf("email = %q", r.URL.Query().Get("email"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"courses": [
			{"topic_slug": "python-basics", "display_title": "Python Basics", "completed_count": 3, "percent_complete": 60}
		]}`))
	}))
	defer srv.Close()

	client := NewProgressClient(srv.URL, 5*time.Second)
	courses, err := client.Dashboard(context.Background(), "student@example.com")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(courses) != 1 || courses[0].TopicSlug != "python-basics" {
		t.Errorf("courses = %+v", courses)
	}
}

func TestChatClientAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req models.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Query != "what is a slice?" {
			t.Errorf("query = %q", req.Query)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer": "A slice is a view over an array."}`))
	}))
	defer srv.Close()

	client := NewChatClient(srv.URL, 5*time.Second)
	resp, err := client.Ask(context.Background(), "what is a slice?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if resp.Answer != "A slice is a view over an array." {
		t.Errorf("answer = %q", resp.Answer)
	}
}

func TestJudge0ClientExecute(t *testing.T) {
	enc := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("base64_encoded") != "true" || q.Get("wait") != "true" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Errorf("api key header = %q", r.Header.Get("X-RapidAPI-Key"))
		}

		var sub struct {
			LanguageID int    `json:"language_id"`
			SourceCode string `json:"source_code"`
		}
		_ = json.NewDecoder(r.Body).Decode(&sub)
		if sub.LanguageID != 71 {
			t.Errorf("language_id = %d", sub.LanguageID)
		}
		src, _ := base64.StdEncoding.DecodeString(sub.SourceCode)
		if string(src) != `print("hi")` {
			t.Errorf("source = %q", src)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"stdout": enc("hi\n"),
			"status": map[string]string{"description": "Accepted"},
		})
	}))
	defer srv.Close()

	client := NewJudge0ClientAt(srv.URL, "test-key", "judge0-ce.p.rapidapi.com", 5*time.Second)
	result, err := client.Execute(context.Background(), 71, `print("hi")`, "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Stdout != "hi\n" {
		t.Errorf("stdout = %q", result.Stdout)
	}
	if result.Status != "Accepted" {
		t.Errorf("status = %q", result.Status)
	}
}

func TestJudge0ClientRequiresAPIKey(t *testing.T) {
	client := NewJudge0ClientAt("http://localhost:1", "", "host", time.Second)
	if _, err := client.Execute(context.Background(), 71, "x", ""); err == nil {
		t.Error("expected error for missing api key")
	}
}

func TestDecodeBase64Tolerant(t *testing.T) {
	if got := decodeBase64(base64.StdEncoding.EncodeToString([]byte("hello"))); got != "hello" {
		t.Errorf("decoded = %q", got)
	}
	// Unencoded error payloads pass through unchanged.
	if got := decodeBase64("some plain error"); got != "some plain error" {
		t.Errorf("plain text = %q", got)
	}
	if got := decodeBase64(""); got != "" {
		t.Errorf("empty = %q", got)
	}
}
