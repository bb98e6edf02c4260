package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an assessment writer who turns study material into multiple-choice questions.

Rules:
- Write exactly the number of questions requested.
- Each question has four options and exactly one correct answer.
- The answer field must repeat the text of the correct option exactly.
- Distractors should be plausible and reflect common misunderstandings.
- Give a short explanation of why the answer is correct.
- Base every question on the source material only; do not invent facts.
- Follow the additional instructions from the user unless they conflict with these rules.`

// buildUserMessage lays out the request for the model. The source is fenced
// in <source> tags so instructions inside it are not mistaken for ours.
func buildUserMessage(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)
	fmt.Fprintf(&b, "Source type: %s\n", req.SourceType)

	if instr := strings.TrimSpace(req.Instructions); instr != "" {
		b.WriteString("\nInstructions:\n")
		b.WriteString(instr)
		b.WriteString("\n")
	}

	b.WriteString("\n<source>\n")
	b.WriteString(req.Source)
	b.WriteString("\n</source>")

	return b.String()
}
