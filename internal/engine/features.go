package engine

import (
	"github.com/forgekit/forge/internal/prompt"
	"github.com/forgekit/forge/pkg/models"
)

// builtinFeatures returns the engine's selectable features, all
// disabled. Plugin ids let presets name a providing plugin instead of
// the feature id itself.
func builtinFeatures() []models.Feature {
	return []models.Feature{
		{
			ID:          "babel",
			Name:        "Babel",
			Description: "Transpile modern JavaScript to wider-compatible output",
			Link:        "https://babeljs.io/",
			Plugins:     []string{"@forge/plugin-babel"},
		},
		{
			ID:          "typescript",
			Name:        "TypeScript",
			Description: "Typed superset of JavaScript",
			Link:        "https://www.typescriptlang.org/",
			Plugins:     []string{"@forge/plugin-typescript"},
		},
		{
			ID:          "pwa",
			Name:        "Progressive Web App support",
			Description: "Service worker and web app manifest",
			Plugins:     []string{"@forge/plugin-pwa"},
		},
		{
			ID:          "router",
			Name:        "Router",
			Description: "Client-side routing",
			Plugins:     []string{"@forge/plugin-router"},
		},
		{
			ID:          "vuex",
			Name:        "State management",
			Description: "Centralized store for application state",
			Plugins:     []string{"@forge/plugin-vuex"},
		},
		{
			ID:          "css-preprocessor",
			Name:        "CSS preprocessors",
			Description: "Sass, Less, or Stylus support",
			Plugins:     []string{"@forge/plugin-css-preprocessor"},
		},
		{
			ID:          "linter",
			Name:        "Linter / Formatter",
			Description: "Code style checking and formatting",
			Plugins:     []string{"@forge/plugin-eslint"},
		},
		{
			ID:          "unit-testing",
			Name:        "Unit testing",
			Description: "Unit test runner",
			Plugins:     []string{"@forge/plugin-unit-jest", "@forge/plugin-unit-mocha"},
		},
		{
			ID:          "e2e-testing",
			Name:        "E2E testing",
			Description: "End-to-end test runner",
			Plugins:     []string{"@forge/plugin-e2e-cypress"},
		},
	}
}

// InjectedPrompts returns the questions the engine adds to every
// creation session, beyond preset and feature selection.
func (e *templateEngine) InjectedPrompts() []prompt.Question {
	return []prompt.Question{
		{
			ID:          "packageManager",
			Type:        prompt.QuestionTypeSelect,
			Title:       "Package manager",
			Description: "Used to install project dependencies",
			Default:     "npm",
			Options: []prompt.Option{
				{Label: "npm", Value: "npm"},
				{Label: "yarn", Value: "yarn"},
				{Label: "pnpm", Value: "pnpm"},
			},
		},
		{
			ID:          "features",
			Type:        prompt.QuestionTypeMultiSelect,
			Title:       "Features",
			Description: "Capabilities to scaffold into the project",
			Options:     featureOptions(builtinFeatures()),
		},
	}
}

// featureOptions converts features into prompt options.
func featureOptions(features []models.Feature) []prompt.Option {
	opts := make([]prompt.Option, len(features))
	for i, f := range features {
		opts[i] = prompt.Option{Label: f.Name, Value: f.ID, Desc: f.Description}
	}
	return opts
}
