package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every parsed set; the first failure wins.
	Validators []Validator

	// MaxTokens is the response budget. Zero lets the provider decide.
	MaxTokens int

	Temperature float64
}

// DefaultConfig returns the structural validator chain and a budget large
// enough for twenty questions with explanations.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
		},
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}
