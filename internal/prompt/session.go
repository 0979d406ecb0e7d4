package prompt

import (
	"fmt"
	"maps"
	"sync"
)

// Session holds an ordered list of question definitions and the
// current answers. It is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	questions []Question
	answers   Answers
}

// NewSession creates an empty prompt session.
func NewSession() *Session {
	return &Session{answers: Answers{}}
}

// Reset clears all questions and answers.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = nil
	s.answers = Answers{}
}

// Add appends a question definition. The question's default, if any,
// becomes its initial answer.
func (s *Session) Add(q Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.questions {
		if existing.ID == q.ID {
			return fmt.Errorf("%w: %q", ErrDuplicateQuestion, q.ID)
		}
	}
	s.questions = append(s.questions, q)
	if q.Default != nil {
		if _, ok := s.answers[q.ID]; !ok {
			s.answers[q.ID] = q.Default
		}
	}
	return nil
}

// Questions returns the question definitions in insertion order.
func (s *Session) Questions() []Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns a copy of the current answer set.
func (s *Session) Answers() Answers {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Answers, len(s.answers))
	maps.Copy(out, s.answers)
	return out
}

// SetAnswer stores a single answer, replacing any previous value.
func (s *Session) SetAnswer(id string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[id] = value
}

// ChangeAnswers applies a mutator to the live answer set. The mutator
// runs under the session lock; it must not call back into the session.
func (s *Session) ChangeAnswers(mutate func(Answers)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(s.answers)
}
