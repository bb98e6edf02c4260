package questiongen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MultipleChoiceQuestion is one generated question.
type MultipleChoiceQuestion struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Options     []string `json:"options"`
}

// MCQList is the QuestionSet returned by LLMGenerator.
type MCQList struct {
	Questions []MultipleChoiceQuestion `json:"questions"`
}

var _ QuestionSet = (*MCQList)(nil)

func (l *MCQList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Questions)
}

// Render lays the questions out as numbered plain-text blocks with lettered
// options, the correct answer and its explanation.
func (l *MCQList) Render() string {
	if l == nil {
		return ""
	}
	var b strings.Builder
	for i, q := range l.Questions {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Question %d:\n", i+1)
		fmt.Fprintf(&b, "Question: %s\n", q.Question)
		b.WriteString("Options:\n")
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "  %s. %s\n", optionLabel(j), opt)
		}
		fmt.Fprintf(&b, "Correct Answer: %s\n", q.Answer)
		if q.Explanation != "" {
			fmt.Fprintf(&b, "Explanation: %s\n", q.Explanation)
		}
	}
	return b.String()
}

// Serialize returns the indented JSON document for export.
func (l *MCQList) Serialize() ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize questions: %w", err)
	}
	return data, nil
}

// optionLabel returns A, B, ... Z, then AA, AB for absurdly long lists.
func optionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return optionLabel(i/26-1) + optionLabel(i%26)
}
