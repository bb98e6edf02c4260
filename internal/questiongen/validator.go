package questiongen

import "fmt"

// Validator checks a parsed question set before it is returned.
// Implementations must be stateless and safe for concurrent use.
type Validator interface {
	Name() string
	Validate(set *MCQList, req Request) *ValidationError
}

// ValidationError describes why a set was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
