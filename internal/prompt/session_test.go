package prompt

import (
	"errors"
	"testing"
)

func TestSessionAddAndAnswers(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Add(Question{ID: "packageManager", Type: QuestionTypeSelect, Default: "npm"}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := s.Add(Question{ID: "features", Type: QuestionTypeMultiSelect}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	answers := s.Answers()
	if got := answers["packageManager"]; got != "npm" {
		t.Errorf("expected default answer 'npm', got %v", got)
	}
	if len(s.Questions()) != 2 {
		t.Errorf("expected 2 questions, got %d", len(s.Questions()))
	}
}

func TestSessionAddDuplicate(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Add(Question{ID: "features"}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	err := s.Add(Question{ID: "features"})
	if !errors.Is(err, ErrDuplicateQuestion) {
		t.Errorf("expected ErrDuplicateQuestion, got %v", err)
	}
}

func TestSessionReset(t *testing.T) {
	t.Parallel()

	s := NewSession()
	_ = s.Add(Question{ID: "features", Default: []string{"router"}})
	s.SetAnswer("preset", "__manual__")

	s.Reset()

	if len(s.Questions()) != 0 {
		t.Errorf("expected no questions after Reset, got %d", len(s.Questions()))
	}
	if len(s.Answers()) != 0 {
		t.Errorf("expected no answers after Reset, got %v", s.Answers())
	}
}

func TestSessionChangeAnswers(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.SetAnswer("features", []string{"router", "vuex"})

	s.ChangeAnswers(func(a Answers) {
		a["packageManager"] = "yarn"
		delete(a, "features")
	})

	answers := s.Answers()
	if got := answers["packageManager"]; got != "yarn" {
		t.Errorf("expected 'yarn', got %v", got)
	}
	if _, ok := answers["features"]; ok {
		t.Error("expected features answer to be deleted")
	}
}

func TestAnswersCopyIsolation(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.SetAnswer("preset", "default")

	copy1 := s.Answers()
	copy1["preset"] = "mutated"

	if got := s.Answers()["preset"]; got != "default" {
		t.Errorf("Answers() copy mutated the session: got %v", got)
	}
}

func TestAnswersStringSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"string slice", []string{"a", "b"}, 2},
		{"any slice", []any{"a", "b", "c"}, 3},
		{"wrong type", "a", 0},
		{"missing", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Answers{}
			if tt.value != nil {
				a["features"] = tt.value
			}
			if got := len(a.StringSlice("features")); got != tt.want {
				t.Errorf("StringSlice() len = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStartNoQuestions(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Start(t.Context()); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("expected ErrNoQuestions, got %v", err)
	}
}
