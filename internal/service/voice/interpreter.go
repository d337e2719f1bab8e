package voice

import (
	"github.com/seu-repo/dronevox/internal/domain"
)

// Interpreter turns a transcript into a StructuredCommand. It holds no mutable
// state and is safe for concurrent use.
type Interpreter struct {
	bank PatternBank
}

func NewInterpreter() *Interpreter {
	return &Interpreter{bank: DefaultPatternBank()}
}

// NewInterpreterWithBank is used by tests that need a custom rule order.
func NewInterpreterWithBank(bank PatternBank) *Interpreter {
	return &Interpreter{bank: bank}
}

func (in *Interpreter) Rules() PatternBank {
	out := make(PatternBank, len(in.bank))
	copy(out, in.bank)
	return out
}

// Interpret runs normalize -> pattern bank -> fallback -> clean -> build.
// It is total: every input yields a command and no error is ever produced.
func (in *Interpreter) Interpret(transcript string) domain.StructuredCommand {
	text := Normalize(transcript)
	if text == "" {
		return BuildCommand(transcript, Extraction{Intent: domain.IntentUnknown, Rule: RuleNone})
	}

	ex, ok := in.bank.Match(text)
	if !ok {
		ex = Fallback(text)
	}
	return BuildCommand(transcript, ex)
}

// BuildCommand cleans the extracted names and enforces the per-intent shape:
// unknown carries no entities and recall never carries a target.
func BuildCommand(transcript string, ex Extraction) domain.StructuredCommand {
	cmd := domain.StructuredCommand{
		Transcript: transcript,
		Intent:     ex.Intent,
		Rule:       ex.Rule,
	}

	switch ex.Intent {
	case domain.IntentSend:
		cmd.Subject = cleanPtr(ex.Subject)
		cmd.Target = cleanPtr(ex.Target)
	case domain.IntentRecall:
		cmd.Subject = cleanPtr(ex.Subject)
	default:
		cmd.Intent = domain.IntentUnknown
		cmd.Rule = RuleNone
	}
	return cmd
}

var defaultInterpreter = NewInterpreter()

// Interpret uses the default pattern bank.
func Interpret(transcript string) domain.StructuredCommand {
	return defaultInterpreter.Interpret(transcript)
}
