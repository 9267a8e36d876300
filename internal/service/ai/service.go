// Package ai generates the bot's chat replies via the configured completion
// model. Every path out of Respond yields a non-empty string: safety
// short-circuits and collaborator failures all degrade to fixed messages, so
// raw errors never reach a meeting.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/kurtniemi/kurtclone/internal/classify"
	"github.com/kurtniemi/kurtclone/internal/model/meeting"
)

// Mode selects the bot's register for a reply.
type Mode string

const (
	// ModePlayful is the default persona: short, witty, in-character.
	ModePlayful Mode = "playful"
	// ModeContextual answers opinion/analysis requests using the rolling
	// meeting context.
	ModeContextual Mode = "contextual"
)

const (
	// playfulMaxTokens keeps banter chat-sized; contextualMaxTokens allows
	// more substantive analysis.
	playfulMaxTokens    = 150
	contextualMaxTokens = 250
)

// Fixed fallback messages. The crisis message deliberately bypasses the model
// so it can never be rewritten or rejected by a safety filter.
const (
	crisisMessage = "Kurt and @kurtbot want you to know: please talk to family, friends, or a mental health counselor about what you're going through. Things will get better - life is worth living. If you need emergency help right now, please reach out to crisis services. 💙"

	contentPolicyMessage = "Neither @kurtbot nor Kurt condone that kind of message. Let's keep this professional and respectful. 🤝"

	playfulErrorMessage    = "Sorry, my brain is buffering! Try again? 🤖"
	contextualErrorMessage = "Sorry, I'm having trouble processing that right now. 🤖"
)

// Service runs the completion chain for both response modes.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the prompt/model chain. The chat model is injected so
// callers own credential handling and tests can substitute a fake.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile response chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// Respond produces the bot's reply to a message. recent is the rolling
// context snapshot, only consulted in contextual mode. Never returns an
// empty string.
func (s *Service) Respond(ctx context.Context, text, sender string, mode Mode, recent []meeting.Entry) string {
	// Self-harm language gets the fixed supportive message before any
	// model involvement.
	if classify.ContainsCrisisSignal(text) {
		log.Printf("[ai] SAFETY: self-harm content detected from %s", sender)
		return crisisMessage
	}

	var input map[string]any
	maxTokens := playfulMaxTokens

	switch mode {
	case ModeContextual:
		maxTokens = contextualMaxTokens
		input = map[string]any{
			"system": buildContextualPrompt(recent),
			"query":  fmt.Sprintf("Now %s asks: %s\n\nProvide a thoughtful, contextual response:", sender, text),
		}
	default:
		input = map[string]any{
			"system": personaPrompt,
			"query":  fmt.Sprintf("%s says: %s", sender, text),
		}
	}

	msg, err := s.chain.Invoke(ctx, input,
		compose.WithChatModelOption(model.WithMaxTokens(maxTokens)))
	if err != nil {
		return fallbackFor(err, mode, sender)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Printf("[ai] empty completion for %s, using fallback", sender)
		return errorMessageFor(mode)
	}

	return msg.Content
}

// fallbackFor maps a collaborator failure to one of the fixed user-facing
// messages. The provider exposes content-filter rejections only through
// error text, so that text is inspected, never surfaced.
func fallbackFor(err error, mode Mode, sender string) string {
	log.Printf("[ai] completion failed for %s: %v", sender, err)

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "content_filter") || strings.Contains(errStr, "content_policy") {
		log.Printf("[ai] SAFETY: content filter blocked the request")
		return contentPolicyMessage
	}

	return errorMessageFor(mode)
}

func errorMessageFor(mode Mode) string {
	if mode == ModeContextual {
		return contextualErrorMessage
	}
	return playfulErrorMessage
}
