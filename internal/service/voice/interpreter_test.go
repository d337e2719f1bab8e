package voice

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seu-repo/dronevox/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestInterpret_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       domain.StructuredCommand
	}{
		{
			name:       "forward phrasing with multi-word names",
			transcript: "send the red falcon to sector alpha",
			want: domain.StructuredCommand{
				Transcript: "send the red falcon to sector alpha",
				Intent:     domain.IntentSend,
				Subject:    strPtr("red falcon"),
				Target:     strPtr("sector alpha"),
				Rule:       RuleSendForward,
			},
		},
		{
			name:       "leading recall keeps trailing adverb",
			transcript: "recall the falcon now",
			want: domain.StructuredCommand{
				Transcript: "recall the falcon now",
				Intent:     domain.IntentRecall,
				Subject:    strPtr("falcon now"),
				Rule:       RuleRecallLeading,
			},
		},
		{
			name:       "trailing recall phrase",
			transcript: "falcon come home",
			want: domain.StructuredCommand{
				Transcript: "falcon come home",
				Intent:     domain.IntentRecall,
				Subject:    strPtr("falcon"),
				Rule:       RuleRecallTrailing,
			},
		},
		{
			name:       "empty transcript",
			transcript: "",
			want: domain.StructuredCommand{
				Transcript: "",
				Intent:     domain.IntentUnknown,
				Rule:       RuleNone,
			},
		},
		{
			name:       "destination stated before the drone",
			transcript: "deploy to alpha falcon",
			want: domain.StructuredCommand{
				Transcript: "deploy to alpha falcon",
				Intent:     domain.IntentSend,
				Subject:    strPtr("falcon"),
				Target:     strPtr("alpha"),
				Rule:       RuleSendReversed,
			},
		},
		{
			name:       "mixed case and terminal punctuation",
			transcript: "  Send The Red Falcon To Sector Alpha!  ",
			want: domain.StructuredCommand{
				Transcript: "  Send The Red Falcon To Sector Alpha!  ",
				Intent:     domain.IntentSend,
				Subject:    strPtr("red falcon"),
				Target:     strPtr("sector alpha"),
				Rule:       RuleSendForward,
			},
		},
		{
			name:       "target stops at sentence terminator",
			transcript: "send falcon to alpha. then hold",
			want: domain.StructuredCommand{
				Transcript: "send falcon to alpha. then hold",
				Intent:     domain.IntentSend,
				Subject:    strPtr("falcon"),
				Target:     strPtr("alpha"),
				Rule:       RuleSendForward,
			},
		},
		{
			name:       "single letter subject is discarded",
			transcript: "send x to alpha",
			want: domain.StructuredCommand{
				Transcript: "send x to alpha",
				Intent:     domain.IntentSend,
				Target:     strPtr("alpha"),
				Rule:       RuleSendForward,
			},
		},
		{
			name:       "reversed rule with article before the drone",
			transcript: "fly into sector seven the blue hawk",
			want: domain.StructuredCommand{
				Transcript: "fly into sector seven the blue hawk",
				Intent:     domain.IntentSend,
				Subject:    strPtr("blue hawk"),
				Target:     strPtr("sector seven"),
				Rule:       RuleSendReversed,
			},
		},
		{
			name:       "send without destination falls back",
			transcript: "please send falcon",
			want: domain.StructuredCommand{
				Transcript: "please send falcon",
				Intent:     domain.IntentSend,
				Subject:    strPtr("falcon"),
				Rule:       RuleFallback,
			},
		},
		{
			name:       "destination without drone falls back",
			transcript: "deploy to alpha",
			want: domain.StructuredCommand{
				Transcript: "deploy to alpha",
				Intent:     domain.IntentSend,
				Target:     strPtr("alpha"),
				Rule:       RuleFallback,
			},
		},
		{
			name:       "recall never carries a target",
			transcript: "recall falcon to base",
			want: domain.StructuredCommand{
				Transcript: "recall falcon to base",
				Intent:     domain.IntentRecall,
				Subject:    strPtr("falcon to base"),
				Rule:       RuleRecallLeading,
			},
		},
		{
			name:       "bare recall keyword",
			transcript: "land",
			want: domain.StructuredCommand{
				Transcript: "land",
				Intent:     domain.IntentRecall,
				Rule:       RuleRecallLeading,
			},
		},
		{
			name:       "no keywords",
			transcript: "the weather is nice today",
			want: domain.StructuredCommand{
				Transcript: "the weather is nice today",
				Intent:     domain.IntentUnknown,
				Rule:       RuleNone,
			},
		},
	}

	interpreter := NewInterpreter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interpreter.Interpret(tt.transcript)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Interpret(%q) mismatch (-want +got):\n%s", tt.transcript, diff)
			}
		})
	}
}

func TestInterpret_ForwardWinsOverReversed(t *testing.T) {
	// Arrange
	text := "send to alpha to bravo"
	bank := DefaultPatternBank()

	reversed, ok := bank[1].Match(text)
	if !ok {
		t.Fatalf("expected %s to match %q on its own", bank[1].Name, text)
	}

	// Act
	got := Interpret(text)

	// Assert
	if got.Rule != RuleSendForward {
		t.Fatalf("expected rule %s, got %s", RuleSendForward, got.Rule)
	}
	if got.Subject == nil || *got.Subject != "to alpha" {
		t.Errorf("expected subject 'to alpha', got %v", got.Subject)
	}
	if got.Target == nil || *got.Target != "bravo" {
		t.Errorf("expected target 'bravo', got %v", got.Target)
	}
	if reversed.Subject == *got.Subject {
		t.Errorf("expected the reversed segmentation to differ, both gave %q", reversed.Subject)
	}
}

func TestInterpret_BankOrderIsExplicit(t *testing.T) {
	want := []string{RuleSendForward, RuleSendReversed, RuleRecallLeading, RuleRecallTrailing}

	var got []string
	for _, r := range NewInterpreter().Rules() {
		got = append(got, r.Name)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpret_CustomBankOrder(t *testing.T) {
	// Reversed first: the same input now segments the other way.
	bank := DefaultPatternBank()
	bank[0], bank[1] = bank[1], bank[0]
	interpreter := NewInterpreterWithBank(bank)

	got := interpreter.Interpret("send to alpha to bravo")

	if got.Rule != RuleSendReversed {
		t.Fatalf("expected rule %s, got %s", RuleSendReversed, got.Rule)
	}
	if got.Target == nil || *got.Target != "alpha to" {
		t.Errorf("expected target 'alpha to', got %v", got.Target)
	}
}

func TestInterpret_TotalAndInvariants(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"!!!",
		"send",
		"recall",
		"to to to",
		"the a an",
		"send the",
		"fly to",
		"bring back",
		"come here falcon",
		"move the drone at",
		"envoyer le drone au secteur",
		"falcon,recall",
		"deploy deploy deploy to to",
		"send\tfalcon\nto\talpha",
		"?send falcon to alpha?",
		"ñandú, return!",
	}

	for _, in := range inputs {
		got := Interpret(in)

		if !got.Intent.Valid() {
			t.Errorf("Interpret(%q): invalid intent %q", in, got.Intent)
		}
		if got.Transcript != in {
			t.Errorf("Interpret(%q): transcript changed to %q", in, got.Transcript)
		}
		if got.Intent == domain.IntentUnknown && (got.Subject != nil || got.Target != nil) {
			t.Errorf("Interpret(%q): unknown intent with entities %v/%v", in, got.Subject, got.Target)
		}
		if got.Intent == domain.IntentRecall && got.Target != nil {
			t.Errorf("Interpret(%q): recall with target %q", in, *got.Target)
		}
		for _, e := range []*string{got.Subject, got.Target} {
			if e == nil {
				continue
			}
			if cleaned, ok := CleanEntity(*e); !ok || cleaned != *e {
				t.Errorf("Interpret(%q): entity %q is not clean", in, *e)
			}
		}
	}
}

func TestInterpret_Deterministic(t *testing.T) {
	in := "send the red falcon to sector alpha"
	first := Interpret(in)

	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Interpret(in)); diff != "" {
			t.Fatalf("interpretation changed between calls:\n%s", diff)
		}
	}
}

func TestInterpret_PartialIsDistinguishableFromUnknown(t *testing.T) {
	partial := Interpret("recall")
	unknown := Interpret("hello")

	if partial.Intent != domain.IntentRecall || partial.Complete() {
		t.Errorf("expected incomplete recall, got %+v", partial)
	}
	if diff := cmp.Diff([]string{"drone"}, partial.MissingSlots()); diff != "" {
		t.Errorf("missing slots mismatch (-want +got):\n%s", diff)
	}
	if unknown.Intent != domain.IntentUnknown {
		t.Errorf("expected unknown intent, got %s", unknown.Intent)
	}
	if len(unknown.MissingSlots()) != 0 {
		t.Errorf("expected no missing slots for unknown, got %v", unknown.MissingSlots())
	}
}
