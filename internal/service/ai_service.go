package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"student_insight/internal/config"
	"student_insight/internal/model"
	"student_insight/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// AIService OpenAI 兼容的 /chat/completions 客户端
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 配置热加载时替换模型、密钥和超时
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = config.DefaultSystemPrompt
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{Timeout: timeout}
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

type ChatCompletionRequest struct {
	Model    string              `json:"model"`
	Messages []model.ChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message model.ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// WithSystemPrompt 首条不是 system 消息时在前面插入系统提示词，不修改入参
func WithSystemPrompt(conversation []model.ChatMessage, prompt string) []model.ChatMessage {
	if len(conversation) > 0 && conversation[0].Role == "system" {
		return append([]model.ChatMessage(nil), conversation...)
	}
	msgs := make([]model.ChatMessage, 0, len(conversation)+1)
	msgs = append(msgs, model.ChatMessage{Role: "system", Content: prompt})
	return append(msgs, conversation...)
}

func (s *AIService) Chat(ctx context.Context, conversation []model.ChatMessage) (string, error) {
	cfg, client := s.snapshot()

	ctx, span := tracing.StartSpan(ctx, "ai.chat",
		attribute.String("ai.model", cfg.Model),
		attribute.Int("ai.messages", len(conversation)),
	)
	var err error
	defer func() { tracing.End(span, err) }()

	reqBody := ChatCompletionRequest{
		Model:    cfg.Model,
		Messages: WithSystemPrompt(conversation, cfg.SystemPrompt),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result ChatCompletionResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(body, &result) == nil && result.Error != nil {
			err = fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, result.Error.Message)
		} else {
			err = fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
		}
		return "", err
	}

	if err = json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	err = fmt.Errorf("AI returned no choices")
	return "", err
}
