// Package form turns a submitted question-generation form into a request.
package form

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/abhisek/qgen/internal/questiongen"
)

// Field names posted by the page.
const (
	FieldSourceText       = "source_text"
	FieldQuestionCount    = "question_count"
	FieldEditInstructions = "edit_instructions"
	FieldInstructions     = "instructions"
)

const (
	MinQuestions     = questiongen.MinCount
	MaxQuestions     = questiongen.MaxCount
	DefaultQuestions = 5
)

// DefaultInstructions guide generation unless the user edits them.
const DefaultInstructions = `Focus on Key Concepts:
Extract the main ideas and technical concepts discussed in the transcript
Avoid Context-Specific References:
Do not include questions tied to the video or module itself. Instead, create questions that are conceptually relevant and independent of the video context.
Encourage Application and Understanding:
Frame questions to encourage understanding of concepts and their applications
Diverse Question Types:
Include a variety of question types, such as:
Conceptual: What are the key components of a chatbot?
Analytical: How does memory improve user experience in chatbots?
Comparative: How are chatbots with internet functionality different from regular chatbots?
Avoid Repetition:
Ensure each question is unique and covers different aspects of the transcript.
Generalize Use Cases:
When referencing use cases, frame them in a broader context
Maintain Clarity:
Keep questions clear, concise, and relevant to the transcript's concepts.
Focus on Learning Objectives:
Ensure questions align with learning objectives such as understanding chatbots, their components, their features, and their use in generative AI applications.`

// Input is one collected form submission.
type Input struct {
	SourceText       string
	QuestionCount    int
	EditInstructions bool
	Instructions     string
}

// Default returns the form as first shown.
func Default() Input {
	return Input{
		QuestionCount: DefaultQuestions,
		Instructions:  DefaultInstructions,
	}
}

// Parse collects an Input from submitted values. The count is clamped to
// [MinQuestions, MaxQuestions]; instructions are the default unless the edit
// toggle is on and the submitted text is not blank.
func Parse(values url.Values) Input {
	in := Input{
		SourceText:       values.Get(FieldSourceText),
		QuestionCount:    ParseCount(values.Get(FieldQuestionCount)),
		EditInstructions: isChecked(values.Get(FieldEditInstructions)),
		Instructions:     DefaultInstructions,
	}
	if in.EditInstructions {
		if custom := values.Get(FieldInstructions); strings.TrimSpace(custom) != "" {
			in.Instructions = custom
		}
	}
	return in
}

// ParseCount parses and clamps a question count, falling back to
// DefaultQuestions when s is not an integer.
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultQuestions
	}
	return ClampCount(n)
}

// ClampCount bounds n to [MinQuestions, MaxQuestions].
func ClampCount(n int) int {
	return max(MinQuestions, min(n, MaxQuestions))
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Ready reports whether the input should trigger a generation.
func (in Input) Ready() bool {
	return strings.TrimSpace(in.SourceText) != ""
}

// Request builds the generation request for this input.
func (in Input) Request() questiongen.Request {
	return questiongen.Request{
		Source:       in.SourceText,
		SourceType:   questiongen.SourceText,
		Count:        ClampCount(in.QuestionCount),
		Instructions: in.Instructions,
	}
}
