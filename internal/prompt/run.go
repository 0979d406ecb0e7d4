package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Start runs every question interactively and stores the answers.
// Each question runs as its own independent huh.Form to avoid the huh
// v0.8.x YOffset scroll bug that occurs when multiple groups share a
// single viewport. Conditional questions are evaluated against the
// answers collected so far.
func (s *Session) Start(ctx context.Context) error {
	questions := s.Questions()
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	theme := newForgeTheme()

	for i := range questions {
		if err := ctx.Err(); err != nil {
			return err
		}

		q := &questions[i]
		if q.Condition != nil && !q.Condition(s.Answers()) {
			continue
		}

		field, store := buildField(q, s.Answers())
		form := huh.NewForm(huh.NewGroup(field)).
			WithTheme(theme).
			WithAccessible(false)

		if err := form.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return ErrCancelled
			}
			return fmt.Errorf("prompt %q: %w", q.ID, err)
		}
		s.SetAnswer(q.ID, store())
	}

	return nil
}

// buildField creates the huh field for a question and returns a getter
// for the collected value.
func buildField(q *Question, current Answers) (huh.Field, func() any) {
	switch q.Type {
	case QuestionTypeMultiSelect:
		var selected []string
		if cur := current.StringSlice(q.ID); cur != nil {
			selected = cur
		}
		opts := make([]huh.Option[string], len(q.Options))
		for i, opt := range q.Options {
			opts[i] = huh.NewOption(optionKey(opt), opt.Value)
		}
		ms := huh.NewMultiSelect[string]().
			Title(q.Title).
			Description(q.Description).
			Options(opts...).
			Value(&selected)
		return ms, func() any { return selected }

	case QuestionTypeInput:
		var value string
		if def, ok := q.Default.(string); ok {
			value = def
		}
		inp := huh.NewInput().
			Title(q.Title).
			Description(q.Description).
			Value(&value)
		if def, ok := q.Default.(string); ok && def != "" {
			inp = inp.Placeholder(def)
		}
		required := q.Required
		extra := q.Validate
		inp = inp.Validate(func(val string) error {
			v := strings.TrimSpace(val)
			if required && v == "" {
				return errors.New("a value is required")
			}
			if extra != nil {
				return extra(v)
			}
			return nil
		})
		return inp, func() any { return strings.TrimSpace(value) }

	case QuestionTypeConfirm:
		var value bool
		if def, ok := q.Default.(bool); ok {
			value = def
		}
		c := huh.NewConfirm().
			Title(q.Title).
			Description(q.Description).
			Value(&value)
		return c, func() any { return value }

	default: // QuestionTypeSelect
		var selected string
		if def, ok := q.Default.(string); ok {
			selected = def
		}
		// Static Options() with no Height() call keeps huh's viewport
		// auto-sized so navigation never scrolls options out of view.
		opts := make([]huh.Option[string], len(q.Options))
		for i, opt := range q.Options {
			opts[i] = huh.NewOption(optionKey(opt), opt.Value)
		}
		sel := huh.NewSelect[string]().
			Title(q.Title).
			Description(q.Description).
			Options(opts...).
			Value(&selected)
		return sel, func() any { return selected }
	}
}

// optionKey builds the display label for an option.
func optionKey(opt Option) string {
	if opt.Desc != "" {
		return opt.Label + " - " + opt.Desc
	}
	return opt.Label
}

// newForgeTheme creates a huh.Theme with forge branding.
func newForgeTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	green := lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	red := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	text := lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"}
	muted := lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}

	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	t.Focused.Option = t.Focused.Option.Foreground(text)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(primary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(green).SetString("◆ ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(muted).SetString("◇ ")
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}
