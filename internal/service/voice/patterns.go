package voice

import (
	"regexp"
	"strings"

	"github.com/seu-repo/dronevox/internal/domain"
)

// Rule names, also reported in StructuredCommand.Rule.
const (
	RuleSendForward    = "send-forward"
	RuleSendReversed   = "send-reversed"
	RuleRecallLeading  = "recall-leading"
	RuleRecallTrailing = "recall-trailing"
	RuleFallback       = "fallback"
	RuleNone           = "none"
)

var (
	SendTriggers   = []string{"send", "deploy", "fly", "move"}
	Prepositions   = []string{"towards", "toward", "into", "to", "at"}
	RecallTriggers = []string{"recall", "bring back", "return", "come back", "come home", "come here", "land now", "land"}
)

const optionalArticle = `(?:(?:the|an|a)\s+)?`

// alternation joins phrases into a regexp alternation, allowing any run of
// whitespace between the words of a multi-word phrase.
func alternation(phrases []string) string {
	parts := make([]string, len(phrases))
	for i, p := range phrases {
		words := strings.Fields(p)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		parts[i] = strings.Join(words, `\s+`)
	}
	return "(?:" + strings.Join(parts, "|") + ")"
}

var (
	sendTrigger   = alternation(SendTriggers)
	preposition   = alternation(Prepositions)
	recallTrigger = alternation(RecallTriggers)

	sendForwardRE = regexp.MustCompile(
		`\b` + sendTrigger + `\s+` + optionalArticle + `([^.!?]+)\s+` + preposition + `\s+` + optionalArticle + `([^.!?]+)`)
	sendReversedRE = regexp.MustCompile(
		`\b` + sendTrigger + `\s+` + preposition + `\s+` + optionalArticle + `([^.!?]+)`)
	recallLeadingRE = regexp.MustCompile(
		`(?s)^` + recallTrigger + `\b[\s,]*` + optionalArticle + `(.*)$`)
	recallTrailingRE = regexp.MustCompile(
		`(?s)^(.+?)\s+` + recallTrigger + `\b`)
)

// Extraction is the raw, uncleaned output of a single interpretation stage.
type Extraction struct {
	Intent  domain.Intent
	Subject string
	Target  string
	Rule    string
}

// Rule is one entry of the pattern bank. Rules operate on normalized text.
type Rule struct {
	Name    string
	Intent  domain.Intent
	pattern *regexp.Regexp
	slots   func(groups []string) (subject, target string, ok bool)
}

// Match applies the rule to normalized text.
func (r Rule) Match(text string) (Extraction, bool) {
	groups := r.pattern.FindStringSubmatch(text)
	if groups == nil {
		return Extraction{}, false
	}
	subject, target, ok := r.slots(groups)
	if !ok {
		return Extraction{}, false
	}
	return Extraction{
		Intent:  r.Intent,
		Subject: strings.TrimSpace(subject),
		Target:  strings.TrimSpace(target),
		Rule:    r.Name,
	}, true
}

// PatternBank is an ordered rule list; the first matching rule wins.
type PatternBank []Rule

func (b PatternBank) Match(text string) (Extraction, bool) {
	for _, rule := range b {
		if ex, ok := rule.Match(text); ok {
			return ex, true
		}
	}
	return Extraction{}, false
}

// DefaultPatternBank returns the rules in precedence order. Send-forward comes
// before send-reversed since both can segment input with two prepositional
// phrases and the forward phrasing is the common one.
func DefaultPatternBank() PatternBank {
	return PatternBank{
		{
			Name:    RuleSendForward,
			Intent:  domain.IntentSend,
			pattern: sendForwardRE,
			slots: func(g []string) (string, string, bool) {
				return g[1], g[2], true
			},
		},
		{
			Name:    RuleSendReversed,
			Intent:  domain.IntentSend,
			pattern: sendReversedRE,
			slots: func(g []string) (string, string, bool) {
				target, subject, ok := splitReversed(g[1])
				return subject, target, ok
			},
		},
		{
			Name:    RuleRecallLeading,
			Intent:  domain.IntentRecall,
			pattern: recallLeadingRE,
			slots: func(g []string) (string, string, bool) {
				return g[1], "", true
			},
		},
		{
			Name:    RuleRecallTrailing,
			Intent:  domain.IntentRecall,
			pattern: recallTrailingRE,
			slots: func(g []string) (string, string, bool) {
				return g[1], "", true
			},
		},
	}
}

// splitReversed splits "<target> [article] <subject>". The last article after
// the first word starts the subject; without one the final word is the subject.
// At least two words are required.
func splitReversed(rest string) (target, subject string, ok bool) {
	words := strings.Fields(rest)
	if len(words) < 2 {
		return "", "", false
	}
	for i := len(words) - 2; i >= 1; i-- {
		if isFiller(words[i]) {
			return strings.Join(words[:i], " "), strings.Join(words[i+1:], " "), true
		}
	}
	last := len(words) - 1
	return strings.Join(words[:last], " "), words[last], true
}
