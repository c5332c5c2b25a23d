package assistant

import (
	"context"
	"strings"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/feedback"
)

// FallbackReply is returned when no topic matches.
const FallbackReply = "Most household emissions come from electricity and natural gas. " +
	"Start with efficient lighting, a programmable thermostat and sealing drafts."

// Static answers from the feedback rule tips by keyword.
type Static struct {
	topics []staticTopic
}

type staticTopic struct {
	keywords []string
	reply    string
}

var _ Responder = (*Static)(nil)

// NewStatic builds a Static responder from the default feedback rules.
func NewStatic() *Static {
	keywords := map[emissions.Category][]string{
		emissions.Electricity: {"electric", "kwh", "power", "light", "appliance"},
		emissions.Gas:         {"gas", "therm", "heat", "furnace", "thermostat"},
		emissions.Water:       {"water", "shower", "gallon", "faucet"},
		emissions.Internet:    {"internet", "data", "stream", "wifi", "video"},
	}

	s := &Static{}
	for _, rule := range feedback.DefaultRules() {
		s.topics = append(s.topics, staticTopic{keywords: keywords[rule.Category], reply: rule.Tip})
	}
	return s
}

// Respond returns the tip of the first topic whose keyword appears in prompt.
func (s *Static) Respond(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := NormalizePrompt(prompt)
	if err != nil {
		return "", err
	}

	lower := strings.ToLower(p)
	for _, topic := range s.topics {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				return topic.reply, nil
			}
		}
	}
	return FallbackReply, nil
}
