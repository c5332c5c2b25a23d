package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/assistant"
	"github.com/rshade/emissionmission/internal/config"
	"github.com/rshade/emissionmission/internal/logging"
)

type chatOutput struct {
	Prompt   string `json:"prompt"`
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
}

func newChatCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "chat <question>",
		Short: "Ask the assistant about reducing household emissions",
		Long: `Sends the question to the configured assistant. The default "static"
provider answers offline from the built-in tips; set GEMINI_API_KEY (or
assistant.provider: gemini) to use Gemini.`,
		Example: `  emissionmission chat "How do I lower my gas bill?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, strings.Join(args, " "), output)
		},
	}
	addOutputFlag(cmd, &output)

	return cmd
}

func runChat(cmd *cobra.Command, question, output string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := parseOutputFormat(output)
	if err != nil {
		return err
	}
	prompt, err := assistant.NormalizePrompt(question)
	if err != nil {
		return err
	}

	cfg := config.GetGlobalConfig().Assistant
	audit := newAuditContext(ctx, "chat", map[string]string{"provider": cfg.Provider})

	responder, err := assistant.New(ctx, cfg)
	if err != nil {
		audit.logFailure(ctx, err)
		return fmt.Errorf("creating assistant: %w", err)
	}

	reply, err := responder.Respond(ctx, prompt)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("provider", cfg.Provider).Msg("assistant request failed")
		audit.logFailure(ctx, err)
		return fmt.Errorf("asking assistant: %w", err)
	}
	reply = assistant.CleanReply(prompt, reply)

	out := chatOutput{Prompt: prompt, Reply: reply, Provider: cfg.Provider}
	w := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		err = writeJSON(w, out)
	case OutputNDJSON:
		err = writeNDJSON(w, []chatOutput{out})
	case OutputTable:
		_, err = fmt.Fprintln(w, reply)
	}
	if err != nil {
		audit.logFailure(ctx, err)
		return err
	}
	audit.logSuccess(ctx, 0)
	return nil
}
