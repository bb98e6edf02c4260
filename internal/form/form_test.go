package form

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/qgen/internal/questiongen"
)

func TestParse_Count(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", DefaultQuestions},
		{"abc", DefaultQuestions},
		{"3", 3},
		{" 7 ", 7},
		{"0", MinQuestions},
		{"-4", MinQuestions},
		{"21", MaxQuestions},
		{"1000", MaxQuestions},
		{"1", 1},
		{"20", 20},
	}
	for _, tt := range tests {
		in := Parse(url.Values{FieldQuestionCount: {tt.raw}})
		assert.Equal(t, tt.want, in.QuestionCount, "count %q", tt.raw)
	}
}

func TestParse_Instructions(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   string
	}{
		{
			name:   "toggle off ignores submitted text",
			values: url.Values{FieldInstructions: {"Only ask about dates."}},
			want:   DefaultInstructions,
		},
		{
			name:   "toggle on uses edited text verbatim",
			values: url.Values{FieldEditInstructions: {"on"}, FieldInstructions: {"  Only ask about dates.\n"}},
			want:   "  Only ask about dates.\n",
		},
		{
			name:   "toggle on with emptied textarea",
			values: url.Values{FieldEditInstructions: {"on"}, FieldInstructions: {"   "}},
			want:   DefaultInstructions,
		},
		{
			name:   "toggle value off",
			values: url.Values{FieldEditInstructions: {"off"}, FieldInstructions: {"x"}},
			want:   DefaultInstructions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.values).Instructions)
		})
	}
}

func TestInput_Ready(t *testing.T) {
	assert.False(t, Parse(url.Values{}).Ready())
	assert.False(t, Parse(url.Values{FieldSourceText: {" \n\t "}}).Ready())
	assert.True(t, Parse(url.Values{FieldSourceText: {"Photosynthesis converts light."}}).Ready())
}

func TestInput_Request(t *testing.T) {
	in := Parse(url.Values{
		FieldSourceText:    {"Photosynthesis converts light energy into chemical energy."},
		FieldQuestionCount: {"3"},
	})

	req := in.Request()
	assert.Equal(t, questiongen.Request{
		Source:       "Photosynthesis converts light energy into chemical energy.",
		SourceType:   questiongen.SourceText,
		Count:        3,
		Instructions: DefaultInstructions,
	}, req)
	assert.NoError(t, questiongen.CheckRequest(req))
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, 5, d.QuestionCount)
	assert.Equal(t, DefaultInstructions, d.Instructions)
	assert.False(t, d.Ready())
}
