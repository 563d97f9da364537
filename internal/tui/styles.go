package tui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the MAQUIS logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "M A Q U I S" as a flowing wave of amber light.
// Deep ember (#4a2408) -> bright orange (#ff8c3a). No hue drift.
func renderShimmerLogo(frame int) string {
	const text = "MAQUIS"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// One smooth wave advancing through the text
		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Continuous RGB interpolation: deep ember -> bright orange
		r := clampByte(74 + b*(255-74))
		g := clampByte(36 + b*(140-36))
		bl := clampByte(8 + b*(58-8))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles, neutral palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ece6e4")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d0c8c0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#685850"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#685850"))

	// Accent and action styles, eMaquis orange
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b00")).
			Bold(true)

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8c3a")).
			Bold(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a"))

	availableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	unavailableStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#b45555"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#2a1e14"))

	// Form fields
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ff8c3a")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4a3c34"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a0e0"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#786860"))
)

// helpEntry renders one "key label" pair for the bottom help bar.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
