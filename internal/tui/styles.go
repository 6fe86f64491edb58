package tui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the AUCTION HOUSE logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "AUCTION HOUSE" as a slow wave of candlelight.
// Deep bronze (#3a2a14) -> bright gold (#e8c05a).
func renderShimmerLogo(frame int) string {
	const text = "AUCTION HOUSE"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		if text[i] == ' ' {
			out += "  "
			continue
		}
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)
		b = b*0.75 + 0.2

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Deep bronze (58, 42, 20) -> bright gold (232, 192, 90)
		r := clampByte(58 + b*(232-58))
		g := clampByte(42 + b*(192-42))
		bl := clampByte(20 + b*(90-20))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += " "
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
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ece4d4")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8c4b8"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5a5648"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5a5648"))

	// Accent / action styles
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	creditsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	bidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22d3ee"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	endedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	sellerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b080d0"))

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3c3a30"))
)

// helpEntry renders one "key label" pair for the help bar.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
