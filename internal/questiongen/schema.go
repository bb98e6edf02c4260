package questiongen

import "github.com/abhisek/qgen/internal/llm"

// QuestionSetSchema is the structured-output contract sent to the provider.
// Every property is required and closed so OpenAI strict mode accepts it.
var QuestionSetSchema = &llm.Schema{
	Name:        "mcq-question-set",
	Description: "A list of multiple-choice questions drawn from the supplied source text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question stem, answerable without seeing the source",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct option, copied exactly from options",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the answer is correct, one or two sentences",
						},
						"options": map[string]any{
							"type":        "array",
							"minItems":    2,
							"items":       map[string]any{"type": "string"},
							"description": "Four answer options, exactly one correct",
						},
					},
					"required":             []any{"question", "answer", "explanation", "options"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
