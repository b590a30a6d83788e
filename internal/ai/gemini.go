package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiModel implements Model using Google's Gemini models.
type GeminiModel struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiModel initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiModel(ctx context.Context, apiKey, modelName string, temperature float64) (*GeminiModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiModel{
		client:      client,
		modelName:   modelName,
		temperature: float32(temperature),
	}, nil
}

// Close cleans up the Gemini client resources.
func (g *GeminiModel) Close() error {
	return g.client.Close()
}

func (g *GeminiModel) Name() string    { return "gemini:" + g.modelName }
func (g *GeminiModel) Available() bool { return true }

// Invoke maps system messages to the system instruction, earlier turns to chat
// history and sends the final user message.
func (g *GeminiModel) Invoke(ctx context.Context, messages []Message) (string, error) {
	system, history, last, err := splitForGemini(messages)
	if err != nil {
		return "", err
	}

	// GenerativeModel carries per-call settings, so each call gets its own.
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(g.temperature)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no response candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", errors.New("gemini: empty text parts")
	}
	return text.String(), nil
}

func splitForGemini(messages []Message) (string, []*genai.Content, string, error) {
	var system []string
	var turns []Message
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	if len(turns) == 0 || turns[len(turns)-1].Role != RoleUser {
		return "", nil, "", errors.New("gemini: conversation must end with a user message")
	}

	history := make([]*genai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return strings.Join(system, "\n\n"), history, turns[len(turns)-1].Content, nil
}
