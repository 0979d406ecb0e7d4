// Package prompt implements the prompt session: an ordered list of
// question definitions plus the current answer set. The creation
// session seeds it from the engine's injected prompts and keeps its
// features answer in sync with the feature catalog.
package prompt

import "errors"

// QuestionType represents the type of prompt question.
type QuestionType int

const (
	// QuestionTypeSelect is a single-choice selection question.
	QuestionTypeSelect QuestionType = iota
	// QuestionTypeMultiSelect is a multiple-choice selection question.
	QuestionTypeMultiSelect
	// QuestionTypeInput is a text input question.
	QuestionTypeInput
	// QuestionTypeConfirm is a yes/no question.
	QuestionTypeConfirm
)

// Question defines a single prompt question.
type Question struct {
	ID          string                // Unique identifier; doubles as the answer key
	Type        QuestionType          // Select, MultiSelect, Input, or Confirm
	Title       string                // Question title
	Description string                // Additional description
	Options     []Option              // Options for select questions
	Default     any                   // Default answer
	Required    bool                  // Whether an answer is required
	Condition   func(Answers) bool    // Condition for asking this question
	Validate    func(string) error    // Extra validation for input questions
}

// Option represents a selectable option.
type Option struct {
	Label string // Display label
	Value string // Actual value stored
	Desc  string // Optional description
}

// Answers is the current answer set, keyed by question id. Values are
// strings for select/input, bool for confirm, and []string for
// multi-select questions.
type Answers map[string]any

// StringSlice returns the answer under key as a []string. It tolerates
// []any values produced by generic decoding.
func (a Answers) StringSlice(key string) []string {
	switch v := a[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Error definitions for the prompt package.
var (
	// ErrCancelled is returned when the user aborts the session.
	ErrCancelled = errors.New("prompt session cancelled by user")
	// ErrDuplicateQuestion is returned when a question id is added twice.
	ErrDuplicateQuestion = errors.New("duplicate question id")
	// ErrNoQuestions is returned when Start is called on an empty session.
	ErrNoQuestions = errors.New("no questions in session")
)
