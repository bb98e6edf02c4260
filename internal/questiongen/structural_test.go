package questiongen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuralValidator(t *testing.T) {
	good := MultipleChoiceQuestion{Question: "Q1?", Answer: "b", Options: []string{"a", "b"}}

	tests := []struct {
		name    string
		set     *MCQList
		wantErr string
	}{
		{"valid", &MCQList{Questions: []MultipleChoiceQuestion{good}}, ""},
		{"answer case-insensitive", &MCQList{Questions: []MultipleChoiceQuestion{
			{Question: "Q?", Answer: " B ", Options: []string{"a", "b"}},
		}}, ""},
		{"nil set", nil, "no questions"},
		{"empty set", &MCQList{}, "no questions"},
		{"empty stem", &MCQList{Questions: []MultipleChoiceQuestion{
			{Question: " ", Answer: "a", Options: []string{"a", "b"}},
		}}, "empty text"},
		{"duplicate stem", &MCQList{Questions: []MultipleChoiceQuestion{good, {Question: "q1?", Answer: "a", Options: []string{"a", "b"}}}}, "repeats question 1"},
		{"single option", &MCQList{Questions: []MultipleChoiceQuestion{
			{Question: "Q?", Answer: "a", Options: []string{"a"}},
		}}, "need at least 2"},
		{"answer missing", &MCQList{Questions: []MultipleChoiceQuestion{
			{Question: "Q?", Answer: "c", Options: []string{"a", "b"}},
		}}, "not one of its options"},
		{"blank option", &MCQList{Questions: []MultipleChoiceQuestion{
			{Question: "Q?", Answer: "a", Options: []string{"a", ""}},
		}}, "option B is empty"},
	}

	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := v.Validate(tt.set, Request{})
			if tt.wantErr == "" {
				assert.Nil(t, verr)
				return
			}
			if assert.NotNil(t, verr) {
				assert.Equal(t, "structural", verr.Validator)
				assert.Contains(t, verr.Error(), tt.wantErr)
			}
		})
	}
}
