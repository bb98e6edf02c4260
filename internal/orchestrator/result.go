package orchestrator

import "github.com/abhisek/qgen/internal/questiongen"

// Result is the outcome of one generation: a question set or a message.
// Exactly one of Questions and Err is set.
type Result struct {
	Questions questiongen.QuestionSet
	Err       string
}

// Success wraps a generated set.
func Success(qs questiongen.QuestionSet) Result {
	return Result{Questions: qs}
}

// Failure wraps a user-facing error message.
func Failure(msg string) Result {
	if msg == "" {
		msg = "unknown error"
	}
	return Result{Err: msg}
}

func (r Result) Succeeded() bool {
	return r.Questions != nil && r.Err == ""
}
