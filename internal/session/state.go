package session

// State is the controller's position in a quiz run.
type State int

const (
	StateIdle        State = iota // Run not called yet
	StateInit                     // Requesting questions
	StateParsing                  // Parsing the generation response
	StateAsking                   // Presenting questions
	StateSummarizing              // Building the session result
	StateAborted                  // User cancelled; nothing to persist
	StateFailed                   // Generation or parsing failed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInit:
		return "init"
	case StateParsing:
		return "parsing"
	case StateAsking:
		return "asking"
	case StateSummarizing:
		return "summarizing"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions follow.
func (s State) Terminal() bool {
	return s == StateSummarizing || s == StateAborted || s == StateFailed
}
