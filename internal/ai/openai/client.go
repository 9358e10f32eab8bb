package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/recruiter-assistant/internal/ai"
	"github.com/spigell/recruiter-assistant/internal/logger"
	"github.com/spigell/recruiter-assistant/internal/utils"
)

const (
	Provider       = "openai"
	DefaultModel   = "gpt-4o-mini"
	DefaultBaseURL = "https://api.openai.com/v1"

	chatTemperature       = 0.7
	chatMaxTokens         = 1000
	assessmentTemperature = 0.3
	schemaName            = "fit_assessment"
	defaultMaxLogLength   = 200
)

// ErrStatus is returned when the API answers with a non-2xx status.
var ErrStatus = errors.New("openai api returned non-success status")

// Client is a minimal OpenAI-compatible chat completions client.
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	http      *http.Client
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Model = (*Client)(nil)

func New(apiKey, baseURL, model string, maxLogLength int, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		model:     model,
		http:      &http.Client{},
		logger:    logger.WithCommonFields(log, Provider, model),
		maxLogLen: maxLogLength,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type chatCompletionsRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionsResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// Chat sends the directive, the stored history and the new message.
func (c *Client) Chat(ctx context.Context, directive string, history []ai.Turn, msg string) (string, error) {
	messages := make([]message, 0, len(history)+2)
	messages = append(messages, message{Role: "system", Content: directive})
	for _, turn := range history {
		role := string(ai.RoleAssistant)
		if turn.Role == ai.RoleUser {
			role = string(ai.RoleUser)
		}
		messages = append(messages, message{Role: role, Content: turn.Content})
	}
	messages = append(messages, message{Role: "user", Content: msg})

	return c.complete(ctx, chatCompletionsRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
}

// Assess requests a strict json_schema response and validates it.
func (c *Client) Assess(ctx context.Context, directive, jobDescription string) (*ai.FitAssessment, error) {
	raw, err := c.complete(ctx, chatCompletionsRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: directive},
			{Role: "user", Content: ai.AssessmentRequest(jobDescription)},
		},
		Temperature: assessmentTemperature,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   schemaName,
				Strict: true,
				Schema: ai.FitAssessmentSchema,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return ai.DecodeFitAssessment([]byte(ai.ExtractJSON(raw)))
}

func (c *Client) complete(ctx context.Context, reqBody chatCompletionsRequest) (string, error) {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat completion request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build chat completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("openai chat completion request",
		zap.Int("messages", len(reqBody.Messages)),
		zap.Bool("structured", reqBody.ResponseFormat != nil),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("openai api error",
			zap.Int("status", resp.StatusCode),
			zap.String("body_preview", utils.TruncateForLog(string(body), c.maxLogLen)),
		)
		return "", fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices returned by model")
	}

	content := out.Choices[0].Message.Content
	c.logger.Debug("openai chat completion response",
		zap.String("finish_reason", out.Choices[0].FinishReason),
		zap.String("response_preview", utils.TruncateForLog(content, c.maxLogLen)),
	)

	return content, nil
}

func (c *Client) Model() string {
	return c.model
}
