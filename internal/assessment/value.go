package assessment

import (
	"strconv"
	"strings"
)

// ValueKind discriminates the in-memory answer representation.
type ValueKind int

const (
	// KindNone is an unanswered value
	KindNone ValueKind = iota
	// KindText is free text
	KindText
	// KindSingleChoice is one choice token
	KindSingleChoice
	// KindMultiChoice is a set of choice tokens
	KindMultiChoice
	// KindScale is a 1..5 agreement rating
	KindScale
)

// Value is the typed answer to a question. The shape depends on the
// question type; the zero Value is "unanswered".
type Value struct {
	kind   ValueKind
	text   string
	tokens []string
	scale  int
}

// TextValue builds a free-text value.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// ChoiceValue builds a single-choice value from a choice token.
func ChoiceValue(token string) Value {
	return Value{kind: KindSingleChoice, text: token}
}

// MultiValue builds a checkbox value from choice tokens. The token order
// is preserved; it is the selection order, not the choice-list order.
func MultiValue(tokens ...string) Value {
	v := Value{kind: KindMultiChoice}
	v.tokens = append(v.tokens, tokens...)
	return v
}

// ScaleValue builds a scale rating value. Zero means unanswered.
func ScaleValue(n int) Value {
	return Value{kind: KindScale, scale: n}
}

// EmptyValue builds the type-appropriate unanswered value for a question.
func EmptyValue(t QuestionType) Value {
	switch t {
	case QuestionTypeCheckbox:
		return Value{kind: KindMultiChoice}
	case QuestionTypeScale:
		return Value{kind: KindScale}
	case QuestionTypeMultipleChoice:
		return Value{kind: KindSingleChoice}
	default:
		return Value{kind: KindText}
	}
}

// Kind returns the value discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether the value counts as unanswered. Whitespace-only
// free text is empty; a checkbox with no tokens is empty; a zero scale
// rating is empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindText, KindSingleChoice:
		return strings.TrimSpace(v.text) == ""
	case KindMultiChoice:
		return len(v.tokens) == 0
	case KindScale:
		return v.scale == 0
	default:
		return true
	}
}

// Text returns the scalar string of a text or single-choice value.
func (v Value) Text() string { return v.text }

// Tokens returns the selected checkbox tokens, in selection order.
func (v Value) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}

// Scale returns the scale rating, 0 when unanswered.
func (v Value) Scale() int { return v.scale }

// Has reports whether a checkbox value contains the token.
func (v Value) Has(token string) bool {
	for _, t := range v.tokens {
		if t == token {
			return true
		}
	}
	return false
}

// Toggle returns a copy with the token added or removed.
// Only meaningful for multi-choice values.
func (v Value) Toggle(token string) Value {
	if v.kind != KindMultiChoice {
		return v
	}
	out := Value{kind: KindMultiChoice}
	removed := false
	for _, t := range v.tokens {
		if t == token {
			removed = true
			continue
		}
		out.tokens = append(out.tokens, t)
	}
	if !removed {
		out.tokens = append(out.tokens, token)
	}
	return out
}

// Wire flattens the value to the backend answer_text string. Checkbox
// tokens are comma-joined, the scale rating is its decimal form, and an
// unanswered value is the empty string.
func (v Value) Wire() string {
	switch v.kind {
	case KindText, KindSingleChoice:
		return v.text
	case KindMultiChoice:
		return strings.Join(v.tokens, ",")
	case KindScale:
		if v.scale == 0 {
			return ""
		}
		return strconv.Itoa(v.scale)
	default:
		return ""
	}
}

// ValueFromWire rebuilds a typed value from the backend answer_text
// string, using the question type to pick the shape. The comma-joined
// checkbox form round-trips token order.
func ValueFromWire(t QuestionType, wire string) Value {
	switch t {
	case QuestionTypeCheckbox:
		if wire == "" {
			return Value{kind: KindMultiChoice}
		}
		return MultiValue(strings.Split(wire, ",")...)
	case QuestionTypeScale:
		n, err := strconv.Atoi(strings.TrimSpace(wire))
		if err != nil {
			return Value{kind: KindScale}
		}
		return ScaleValue(n)
	case QuestionTypeMultipleChoice:
		return ChoiceValue(wire)
	default:
		return TextValue(wire)
	}
}

// Answer pairs a question id with its typed value. Answers only exist
// for questions present in the owning assessment.
type Answer struct {
	Question int
	Value    Value
}

// ToWire flattens the answer for the API boundary.
func (a Answer) ToWire() WireAnswer {
	return WireAnswer{Question: a.Question, AnswerText: a.Value.Wire()}
}
