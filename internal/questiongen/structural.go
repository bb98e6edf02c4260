package questiongen

import (
	"fmt"
	"strings"
)

// StructuralValidator checks that every question is complete and that its
// answer is one of its options.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(set *MCQList, _ Request) *ValidationError {
	if set == nil || len(set.Questions) == 0 {
		return v.fail("no questions were generated")
	}

	seen := make(map[string]int, len(set.Questions))
	for i, q := range set.Questions {
		n := i + 1
		stem := strings.TrimSpace(q.Question)
		if stem == "" {
			return v.fail("question %d has empty text", n)
		}
		if prev, dup := seen[strings.ToLower(stem)]; dup {
			return v.fail("question %d repeats question %d", n, prev)
		}
		seen[strings.ToLower(stem)] = n

		if len(q.Options) < 2 {
			return v.fail("question %d has %d options, need at least 2", n, len(q.Options))
		}
		if !containsOption(q.Options, q.Answer) {
			return v.fail("question %d answer %q is not one of its options", n, q.Answer)
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return v.fail("question %d option %s is empty", n, optionLabel(j))
			}
		}
	}
	return nil
}

func (v *StructuralValidator) fail(format string, args ...any) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
}

func containsOption(options []string, answer string) bool {
	answer = strings.TrimSpace(answer)
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), answer) {
			return true
		}
	}
	return false
}
