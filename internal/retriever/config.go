package retriever

const (
	defaultTopK            = 20
	defaultMinScore        = 0.3
	defaultContextBudget   = 15000
	defaultMinContextChars = 100
)

type Config struct {
	// how many candidates to pull from the store before filtering
	TopK int

	// relevance threshold; candidates on the wrong side are dropped
	MinScore float32

	// when true, scores are distances and lower is better, flipping
	// the threshold comparison
	ScoreIsDistance bool

	// max characters of assembled context sent to the generator
	ContextBudget int

	// below this much assembled context the answer falls back to the
	// generator's own knowledge
	MinContextChars int
}

func DefaultConfig() Config {
	return Config{
		TopK:            defaultTopK,
		MinScore:        defaultMinScore,
		ContextBudget:   defaultContextBudget,
		MinContextChars: defaultMinContextChars,
	}
}

// applies defaults for unset fields
func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = defaultTopK
	}

	if c.MinScore == 0 {
		c.MinScore = defaultMinScore
	}

	if c.ContextBudget <= 0 {
		c.ContextBudget = defaultContextBudget
	}

	if c.MinContextChars <= 0 {
		c.MinContextChars = defaultMinContextChars
	}

	return c
}

// reports whether a score clears the relevance threshold
func (c Config) relevant(score float32) bool {
	if c.ScoreIsDistance {
		return score <= c.MinScore
	}

	return score >= c.MinScore
}
