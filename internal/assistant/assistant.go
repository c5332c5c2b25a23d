// Package assistant answers free-form household energy questions.
//
// Callers depend only on Responder. Gemini talks to Google's Generative
// Language API; Static answers offline from the built-in tip rules and is
// what tests and keyless installs use.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rshade/emissionmission/internal/config"
	"github.com/rshade/emissionmission/internal/logging"
)

// Responder turns a prompt into a reply.
type Responder interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, prompt string) (string, error)

// Respond implements Responder.
func (f ResponderFunc) Respond(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Errors.
var (
	ErrEmptyPrompt = errors.New("prompt is empty")
	ErrEmptyReply  = errors.New("assistant returned an empty reply")
	ErrTimeout     = errors.New("assistant timed out")
)

// MaxPromptLength bounds the prompt accepted from users, in bytes.
const MaxPromptLength = 2000

// NormalizePrompt trims a prompt and rejects empty or oversize input.
func NormalizePrompt(prompt string) (string, error) {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return "", ErrEmptyPrompt
	}
	if len(p) > MaxPromptLength {
		return "", fmt.Errorf("prompt is %d bytes, limit is %d", len(p), MaxPromptLength)
	}
	return p, nil
}

// CleanReply strips an echoed prompt prefix and surrounding whitespace.
func CleanReply(prompt, reply string) string {
	reply = strings.TrimSpace(reply)
	if p := strings.TrimSpace(prompt); p != "" {
		reply = strings.TrimSpace(strings.TrimPrefix(reply, p))
	}
	return reply
}

// timeoutResponder bounds each call to next with a deadline.
type timeoutResponder struct {
	next    Responder
	timeout time.Duration
}

// WithTimeout wraps r so every call gets its own deadline. A non-positive
// timeout returns r unchanged.
func WithTimeout(r Responder, timeout time.Duration) Responder {
	if timeout <= 0 {
		return r
	}
	return &timeoutResponder{next: r, timeout: timeout}
}

func (t *timeoutResponder) Respond(ctx context.Context, prompt string) (string, error) {
	log := logging.FromContext(ctx)
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	reply, err := t.next.Respond(ctx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn().Ctx(ctx).Str("component", "assistant").
				Dur("timeout", t.timeout).Msg("assistant call timed out")
			return "", fmt.Errorf("%w after %s: %w", ErrTimeout, t.timeout, err)
		}
		return "", err
	}
	log.Debug().Ctx(ctx).Str("component", "assistant").
		Dur("elapsed", elapsed).Int("reply_len", len(reply)).Msg("assistant replied")
	return reply, nil
}

// New builds the Responder configured by cfg, wrapped with its timeout.
func New(ctx context.Context, cfg config.AssistantConfig) (Responder, error) {
	var r Responder
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := NewGemini(ctx, GeminiOptions{
			APIKey:          cfg.APIKey,
			Model:           cfg.Model,
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
		})
		if err != nil {
			return nil, err
		}
		r = g
	case config.ProviderStatic, "":
		r = NewStatic()
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", cfg.Provider)
	}
	return WithTimeout(r, cfg.Timeout), nil
}
