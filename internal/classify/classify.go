// Package classify decides whether a chat message deserves a reply and in
// which register. Classification is plain ordered substring matching over the
// lower-cased text; the rule lists are data so new triggers don't touch the
// router.
package classify

import "strings"

// Category is the outcome of classifying a single chat message.
type Category int

const (
	// Ignorable means the message does not address the bot.
	Ignorable Category = iota
	// CrisisSignal means the message contains self-harm language and must
	// receive the fixed supportive response, bypassing the model.
	CrisisSignal
	// OpinionRequest means the sender asked for analysis of the
	// discussion; answered in contextual mode.
	OpinionRequest
	// PlayfulMention means a public message addressed the bot; answered
	// in playful mode.
	PlayfulMention
	// DirectMessage means a DM with no other trigger; DMs always get a
	// playful reply.
	DirectMessage
)

// Result carries the matched category and, where applicable, the trigger
// phrase that fired. Transient; never persisted.
type Result struct {
	Category Category
	Trigger  string
}

// NeedsResponse reports whether the router should generate a reply.
func (r Result) NeedsResponse() bool {
	return r.Category != Ignorable
}

// crisisPhrases flag self-harm or suicide language. Checked first; a match
// short-circuits everything else.
var crisisPhrases = []string{
	"want to die", "kill myself", "end my life", "suicide",
	"hurt myself", "harm myself", "don't want to live",
	"better off dead", "end it all", "take my own life",
}

// opinionPhrases flag requests for the bot's take on the discussion.
var opinionPhrases = []string{
	"what do you think", "what are your thoughts", "your opinion",
	"what's your take", "your thoughts", "how do you feel",
	"what would you say", "do you agree", "your perspective",
	"kurtbot, analyze", "kurtbot analysis",
}

// Classify runs the ordered rule list over a message. mentionTriggers are the
// extra lower-cased phrases (bot handle, "kurt", the configured profile URL)
// that make a public message count as addressing the bot.
//
// Matching is substring-based with no word boundaries: "kurtis" fires the
// "kurt" trigger. That looseness is intentional.
func Classify(text string, isDM bool, mentionTriggers []string) Result {
	lower := strings.ToLower(text)

	if isDM {
		return classifyAddressed(lower, Result{Category: DirectMessage})
	}

	// Public messages are only considered at all when they address the bot.
	if phrase, ok := matchAny(lower, mentionTriggers); ok {
		return classifyAddressed(lower, Result{Category: PlayfulMention, Trigger: phrase})
	}

	return Result{Category: Ignorable}
}

// classifyAddressed applies the priority rules to a message already known to
// deserve attention: crisis beats opinion beats the fallback category.
func classifyAddressed(lower string, fallback Result) Result {
	if phrase, ok := matchAny(lower, crisisPhrases); ok {
		return Result{Category: CrisisSignal, Trigger: phrase}
	}

	if phrase, ok := matchAny(lower, opinionPhrases); ok {
		return Result{Category: OpinionRequest, Trigger: phrase}
	}

	return fallback
}

// ContainsCrisisSignal reports whether the text carries self-harm language.
// Exposed separately so the response generator can apply its safety
// short-circuit without re-running full classification.
func ContainsCrisisSignal(text string) bool {
	_, ok := matchAny(strings.ToLower(text), crisisPhrases)
	return ok
}

func matchAny(lower string, phrases []string) (string, bool) {
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}
