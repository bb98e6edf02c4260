package questiongen

import (
	"context"
	"errors"
)

// SourceType names the kind of material questions are drawn from. Only
// plain text is produced by the form, but the adapter forwards it so the
// prompt can say what it is looking at.
type SourceType string

const SourceText SourceType = "text"

// Bounds on the number of questions per request.
const (
	MinCount = 1
	MaxCount = 20
)

var (
	// ErrEmptySource is returned when the request carries no source text.
	ErrEmptySource = errors.New("source text is empty")

	// ErrCountOutOfRange is returned when Count is outside [MinCount, MaxCount].
	ErrCountOutOfRange = errors.New("question count out of range")
)

// Request holds everything a single generation call needs.
type Request struct {
	Source       string
	SourceType   SourceType
	Count        int
	Instructions string
}

// QuestionSet is the opaque result of a generation. Callers only render it
// for display or serialize it for export.
type QuestionSet interface {
	// Render returns the human-readable form shown in the results panel.
	Render() string

	// Serialize returns the JSON document offered for download.
	Serialize() ([]byte, error)

	// Len returns the number of questions in the set.
	Len() int
}

// Capability produces a question set from source material.
type Capability interface {
	Generate(ctx context.Context, req Request) (QuestionSet, error)
}

// CapabilityFunc adapts a function to Capability.
type CapabilityFunc func(ctx context.Context, req Request) (QuestionSet, error)

func (f CapabilityFunc) Generate(ctx context.Context, req Request) (QuestionSet, error) {
	return f(ctx, req)
}
