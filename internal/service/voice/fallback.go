package voice

import (
	"regexp"
	"strings"

	"github.com/seu-repo/dronevox/internal/domain"
)

var (
	sendKeywordRE   = regexp.MustCompile(`\b` + sendTrigger + `\b`)
	recallKeywordRE = regexp.MustCompile(`\b` + recallTrigger + `\b`)
	toWordRE        = regexp.MustCompile(`\bto\b`)
)

// recallNoise are the tokens dropped when the fallback recovers a drone name
// from a recall-like utterance.
var recallNoise = map[string]struct{}{
	"recall": {}, "bring": {}, "back": {}, "return": {}, "come": {},
	"home": {}, "land": {}, "the": {}, "to": {}, "base": {},
}

// Fallback is the low-precision tier used only when no pattern matched. It makes
// a single pass over the normalized text and never consults the pattern bank.
func Fallback(text string) Extraction {
	if loc := sendKeywordRE.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		ex := Extraction{Intent: domain.IntentSend, Rule: RuleFallback}
		if to := toWordRE.FindStringIndex(rest); to != nil {
			ex.Subject = strings.TrimSpace(rest[:to[0]])
			ex.Target = strings.TrimSpace(rest[to[1]:])
		} else {
			ex.Subject = strings.TrimSpace(rest)
		}
		return ex
	}

	if recallKeywordRE.MatchString(text) {
		var kept []string
		for _, tok := range strings.Fields(text) {
			if _, noise := recallNoise[strings.Trim(tok, trailingPunctuation)]; noise {
				continue
			}
			kept = append(kept, tok)
		}
		return Extraction{
			Intent:  domain.IntentRecall,
			Subject: strings.Join(kept, " "),
			Rule:    RuleFallback,
		}
	}

	return Extraction{Intent: domain.IntentUnknown, Rule: RuleNone}
}
