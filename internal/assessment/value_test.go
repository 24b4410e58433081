package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEmptiness(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		empty bool
	}{
		{"zero value", Value{}, true},
		{"blank text", TextValue(""), true},
		{"whitespace text", TextValue("   "), true},
		{"filled text", TextValue("we ship quarterly"), false},
		{"no choice", ChoiceValue(""), true},
		{"choice token", ChoiceValue("opt_a"), false},
		{"no tokens", MultiValue(), true},
		{"one token", MultiValue("a"), false},
		{"zero scale", ScaleValue(0), true},
		{"rated scale", ScaleValue(4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.value.IsEmpty())
		})
	}
}

func TestCheckboxWireRoundTrip(t *testing.T) {
	v := MultiValue("a", "b")
	assert.Equal(t, "a,b", v.Wire())

	back := ValueFromWire(QuestionTypeCheckbox, "a,b")
	assert.Equal(t, []string{"a", "b"}, back.Tokens())
	assert.Equal(t, KindMultiChoice, back.Kind())
}

func TestScaleWireRoundTrip(t *testing.T) {
	assert.Equal(t, "4", ScaleValue(4).Wire())
	assert.Equal(t, "", ScaleValue(0).Wire())

	assert.Equal(t, 4, ValueFromWire(QuestionTypeScale, "4").Scale())
	assert.True(t, ValueFromWire(QuestionTypeScale, "").IsEmpty())
	assert.True(t, ValueFromWire(QuestionTypeScale, "junk").IsEmpty())
}

func TestToggle(t *testing.T) {
	v := EmptyValue(QuestionTypeCheckbox)

	v = v.Toggle("a")
	v = v.Toggle("b")
	assert.Equal(t, []string{"a", "b"}, v.Tokens())

	v = v.Toggle("a")
	assert.Equal(t, []string{"b"}, v.Tokens())

	// toggling on a scalar kind is a no-op
	s := TextValue("hello")
	assert.Equal(t, "hello", s.Toggle("x").Text())
}

func TestEmptyValueMatchesQuestionType(t *testing.T) {
	assert.Equal(t, KindMultiChoice, EmptyValue(QuestionTypeCheckbox).Kind())
	assert.Equal(t, KindScale, EmptyValue(QuestionTypeScale).Kind())
	assert.Equal(t, KindSingleChoice, EmptyValue(QuestionTypeMultipleChoice).Kind())
	assert.Equal(t, KindText, EmptyValue(QuestionTypeText).Kind())
}

func TestQuestionByID(t *testing.T) {
	a := &Assessment{Questions: []Question{{ID: 11}, {ID: 22}}}
	assert.NotNil(t, a.QuestionByID(22))
	assert.Nil(t, a.QuestionByID(33))
}
