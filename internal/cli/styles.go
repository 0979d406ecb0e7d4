package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cliAccent = lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF"))
	cliTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2DD4BF"))
	cliDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cliWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#0F766E")).
			Padding(0, 2)
)

// kvPair is a labeled value for aligned detail output.
type kvPair struct {
	Key   string
	Value string
}

// renderKeyValueLines renders pairs with keys right-padded to a common
// width.
func renderKeyValueLines(pairs []kvPair) string {
	width := 0
	for _, p := range pairs {
		if len(p.Key) > width {
			width = len(p.Key)
		}
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		key := cliDim.Render(fmt.Sprintf("%-*s", width, p.Key))
		lines = append(lines, fmt.Sprintf("%s  %s", key, p.Value))
	}
	return strings.Join(lines, "\n")
}

// renderSuccessCard renders a bordered completion card with a title
// line and optional detail lines.
func renderSuccessCard(title string, details ...string) string {
	var b strings.Builder
	b.WriteString(cliTitle.Render("✓ " + title))
	for _, d := range details {
		b.WriteString("\n")
		b.WriteString(d)
	}
	return cardStyle.Render(b.String())
}

// PrintBanner prints the startup banner shown before interactive flows.
func PrintBanner(ver string) {
	fmt.Println(cliTitle.Render("Forge") + cliDim.Render(" · project scaffolding · "+ver))
}
