package assistant

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// SystemInstruction frames every Gemini request.
const SystemInstruction = "You are EmissionMission's assistant. Answer questions about household " +
	"electricity, natural gas, water and internet use and how to lower their CO2 emissions. " +
	"Reply in two or three short sentences."

// GeminiOptions configures NewGemini.
type GeminiOptions struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// contentGenerator is the subset of *genai.Models the assistant calls.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Gemini answers prompts with a Gemini model.
type Gemini struct {
	models contentGenerator
	opts   GeminiOptions
}

var _ Responder = (*Gemini)(nil)

// NewGemini creates a Gemini client for the Gemini API backend.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiWith(client.Models, opts), nil
}

func newGeminiWith(models contentGenerator, opts GeminiOptions) *Gemini {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	return &Gemini{models: models, opts: opts}
}

// Respond implements Responder.
func (g *Gemini) Respond(ctx context.Context, prompt string) (string, error) {
	p, err := NormalizePrompt(prompt)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.opts.Temperature),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemInstruction}},
		},
	}
	if g.opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = g.opts.MaxOutputTokens
	}

	result, err := g.models.GenerateContent(ctx, g.opts.Model, genai.Text(p), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	reply := CleanReply(p, result.Text())
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
