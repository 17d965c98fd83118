package countdown

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/valweek/internal/unlock"
)

var (
	unitStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Align(lipgloss.Center).
			Width(8)

	numberStyle = lipgloss.NewStyle().Bold(true)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model renders a days/hours/minutes/seconds countdown.
type Model struct {
	Remaining unlock.Remaining
	Accent    lipgloss.Color
}

func New(accent lipgloss.Color) Model {
	return Model{Accent: accent}
}

// Set replaces the displayed countdown.
func (m *Model) Set(r unlock.Remaining) {
	m.Remaining = r
}

func (m Model) View() string {
	style := unitStyle.BorderForeground(m.Accent)
	num := numberStyle.Foreground(m.Accent)

	unit := func(n int, label string) string {
		return style.Render(lipgloss.JoinVertical(lipgloss.Center,
			num.Render(fmt.Sprintf("%02d", n)),
			labelStyle.Render(label),
		))
	}

	var boxes []string
	if m.Remaining.Days > 0 {
		boxes = append(boxes, unit(m.Remaining.Days, "days"))
	}
	boxes = append(boxes,
		unit(m.Remaining.Hours, "hours"),
		unit(m.Remaining.Minutes, "mins"),
		unit(m.Remaining.Seconds, "secs"),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}
