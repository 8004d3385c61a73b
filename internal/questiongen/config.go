package questiongen

// Config controls prompt construction and parsing.
type Config struct {
	// Validators run on every parsed question, in order. The first failure
	// drops the question.
	Validators []Validator

	// MaxTokens is the token budget for LLM responses.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// RetrievalResults is the number of knowledge-base passages to fetch.
	RetrievalResults int

	// MaxPassageChars truncates each retrieved passage in LLM prompts.
	MaxPassageChars int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ChoicesValidator{MinChoices: 2, MaxChoices: 8},
		},
		MaxTokens:        4096,
		Temperature:      0.7,
		RetrievalResults: 5,
		MaxPassageChars:  1500,
	}
}
