package cli_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/emissionmission/internal/assistant"
	"github.com/rshade/emissionmission/internal/feedback"
)

func TestChat_Static(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "chat", "How", "do", "I", "use", "less", "gas?")
	require.NoError(t, err)
	assert.Equal(t, feedback.DefaultRules()[1].Tip, strings.TrimSpace(out))
}

func TestChat_JSON(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "chat", "hello there", "--output", "json")
	require.NoError(t, err)

	var got struct {
		Prompt   string `json:"prompt"`
		Reply    string `json:"reply"`
		Provider string `json:"provider"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "hello there", got.Prompt)
	assert.Equal(t, assistant.FallbackReply, got.Reply)
	assert.Equal(t, "static", got.Provider)
}

func TestChat_Errors(t *testing.T) {
	setupCLITest(t)

	_, err := executeCmd(t, "chat")
	require.Error(t, err)

	_, err = executeCmd(t, "chat", "   ")
	require.ErrorIs(t, err, assistant.ErrEmptyPrompt)
}

func TestChat_GeminiWithoutKey(t *testing.T) {
	setupCLITest(t)
	t.Setenv("EMISSIONMISSION_ASSISTANT", "gemini")

	_, err := executeCmd(t, "chat", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating assistant")
}
