package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"student_insight/internal/config"
	"student_insight/internal/model"
)

func TestWithSystemPrompt(t *testing.T) {
	t.Parallel()
	conv := []model.ChatMessage{{Role: "user", Content: "hi"}}
	got := WithSystemPrompt(conv, "be brief")
	if len(got) != 2 || got[0].Role != "system" || got[0].Content != "be brief" {
		t.Fatalf("messages = %+v", got)
	}
	if len(conv) != 1 {
		t.Fatalf("input mutated")
	}

	own := []model.ChatMessage{{Role: "system", Content: "custom"}, {Role: "user", Content: "hi"}}
	if got := WithSystemPrompt(own, "be brief"); len(got) != 2 || got[0].Content != "custom" {
		t.Fatalf("existing system prompt replaced: %+v", got)
	}
}

func TestAIChat(t *testing.T) {
	t.Parallel()
	var received ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"You asked: hi"}}]}`))
	}))
	defer srv.Close()

	svc := NewAIService(config.AIConfig{BaseURL: srv.URL + "/v1/", APIKey: "secret", Model: "gpt-test", TimeoutSeconds: 5})
	reply, err := svc.Chat(context.Background(), []model.ChatMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "You asked: hi" {
		t.Fatalf("reply = %q", reply)
	}
	if received.Model != "gpt-test" || len(received.Messages) != 2 || received.Messages[0].Content != config.DefaultSystemPrompt {
		t.Fatalf("request = %+v", received)
	}
}

func TestAIChatErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	svc := NewAIService(config.AIConfig{BaseURL: srv.URL})
	_, err := svc.Chat(context.Background(), []model.ChatMessage{{Role: "user", Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "invalid api key") || !strings.Contains(err.Error(), "401") {
		t.Fatalf("err = %v", err)
	}
}
