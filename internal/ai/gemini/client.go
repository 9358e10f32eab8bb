package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/recruiter-assistant/internal/ai"
	"github.com/spigell/recruiter-assistant/internal/logger"
	"github.com/spigell/recruiter-assistant/internal/utils"
)

const (
	Provider     = "gemini"
	DefaultModel = "gemini-2.5-pro"

	chatTemperature       = 0.7
	chatMaxOutputTokens   = 1000
	assessmentTemperature = 0.3
	defaultMaxLogLength   = 200

	// Thinking tokens count against MaxOutputTokens on 2.5 models.
	thinkingBudget = 1024
)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator implements ai.Model on top of the Google GenAI client.
type Generator struct {
	chats     chatCreator
	models    contentGenerator
	model     string
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Model = (*Generator)(nil)

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxLogLength int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Generator{
		chats:     genaiChats{chats: client.Chats},
		models:    client.Models,
		model:     model,
		logger:    logger.WithCommonFields(log, Provider, model),
		maxLogLen: maxLogLength,
	}, nil
}

// Chat replays the stored history into a chat session with the directive as
// system instruction and sends the new message.
func (g *Generator) Chat(ctx context.Context, directive string, history []ai.Turn, message string) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(directive, genai.RoleUser),
		Temperature:       genai.Ptr[float32](chatTemperature),
		MaxOutputTokens:   chatMaxOutputTokens + thinkingBudget,
		ThinkingConfig:    thinking(),
	}

	g.logger.Debug("gemini chat request",
		zap.Int("directive_length", utf8.RuneCountInString(directive)),
		zap.Int("history_turns", len(history)),
		zap.String("message_preview", utils.TruncateForLog(message, g.maxLogLen)),
	)

	chat, err := g.chats.Create(ctx, g.model, config, toContents(history))
	if err != nil {
		return "", fmt.Errorf("create chat session: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("send chat message: %w", err)
	}

	reply, err := responseText(resp)
	if err != nil {
		return "", err
	}

	g.logger.Debug("gemini chat response",
		zap.Int("response_length", utf8.RuneCountInString(reply)),
		zap.String("response_preview", utils.TruncateForLog(reply, g.maxLogLen)),
	)

	return reply, nil
}

// Assess asks for a JSON answer constrained by the fit assessment schema.
func (g *Generator) Assess(ctx context.Context, directive, jobDescription string) (*ai.FitAssessment, error) {
	if g == nil || g.models == nil {
		return nil, errors.New("gemini generator is not initialized")
	}

	if strings.TrimSpace(jobDescription) == "" {
		return nil, errors.New("job description must not be empty")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(directive, genai.RoleUser),
		Temperature:       genai.Ptr[float32](assessmentTemperature),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema,
		ThinkingConfig:    thinking(),
	}

	g.logger.Debug("gemini assessment request",
		zap.Int("directive_length", utf8.RuneCountInString(directive)),
		zap.String("job_description_preview", utils.TruncateForLog(jobDescription, g.maxLogLen)),
	)

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(ai.AssessmentRequest(jobDescription)), config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("gemini assessment response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	return ai.DecodeFitAssessment([]byte(ai.ExtractJSON(raw)))
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func thinking() *genai.ThinkingConfig {
	return &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](thinkingBudget)}
}

func toContents(history []ai.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		// anything not written by the recruiter is replayed as the model
		var role genai.Role = genai.RoleModel
		if turn.Role == ai.RoleUser {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return contents
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}
