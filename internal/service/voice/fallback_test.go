package voice

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seu-repo/dronevox/internal/domain"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		text string
		want Extraction
	}{
		{
			text: "please send falcon",
			want: Extraction{Intent: domain.IntentSend, Subject: "falcon", Rule: RuleFallback},
		},
		{
			text: "deploy to alpha",
			want: Extraction{Intent: domain.IntentSend, Target: "alpha", Rule: RuleFallback},
		},
		{
			text: "fly falcon tomorrow",
			want: Extraction{Intent: domain.IntentSend, Subject: "falcon tomorrow", Rule: RuleFallback},
		},
		{
			text: "move hawk to ridge to valley",
			want: Extraction{Intent: domain.IntentSend, Subject: "hawk", Target: "ridge to valley", Rule: RuleFallback},
		},
		{
			text: "please return the falcon to base",
			want: Extraction{Intent: domain.IntentRecall, Subject: "please falcon", Rule: RuleFallback},
		},
		{
			text: "return, home.",
			want: Extraction{Intent: domain.IntentRecall, Subject: "", Rule: RuleFallback},
		},
		{
			text: "?recall falcon",
			want: Extraction{Intent: domain.IntentRecall, Subject: "falcon", Rule: RuleFallback},
		},
		{
			text: "sender landing",
			want: Extraction{Intent: domain.IntentUnknown, Rule: RuleNone},
		},
	}

	for _, tt := range tests {
		got := Fallback(tt.text)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Fallback(%q) mismatch (-want +got):\n%s", tt.text, diff)
		}
	}
}

func TestFallback_SendBeatsRecall(t *testing.T) {
	got := Fallback("return and send hawk")

	if got.Intent != domain.IntentSend {
		t.Fatalf("expected send intent, got %s", got.Intent)
	}
	if got.Subject != "hawk" {
		t.Errorf("expected subject 'hawk', got %q", got.Subject)
	}
}
