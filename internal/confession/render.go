package confession

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/valweek/internal/models"
)

var dayColors = map[models.Day]lipgloss.Color{
	models.DayRose:      lipgloss.Color("204"),
	models.DayPropose:   lipgloss.Color("205"),
	models.DayChocolate: lipgloss.Color("130"),
	models.DayTeddy:     lipgloss.Color("173"),
	models.DayPromise:   lipgloss.Color("69"),
	models.DayHug:       lipgloss.Color("211"),
	models.DayKiss:      lipgloss.Color("161"),
	models.DayValentine: lipgloss.Color("197"),
}

// ColorFor is the accent color used for d's blocks.
func ColorFor(d models.Day) lipgloss.Color {
	if c, ok := dayColors[d]; ok {
		return c
	}
	return lipgloss.Color("245")
}

// Render draws p as a bordered terminal block.
func Render(p Parsed) string {
	color := ColorFor(p.Day)
	header := lipgloss.NewStyle().Foreground(color).Bold(true)
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(color).Padding(0, 1)
	rejected := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promise := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	quote := lipgloss.NewStyle().Italic(true)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	if p.IsRaw() {
		return box.BorderForeground(lipgloss.Color("245")).Render(quote.Render(fmt.Sprintf("%q", firstRaw(p))))
	}

	var b strings.Builder
	b.WriteString(header.Render(p.Day.Emoji() + " " + p.Day.Title()))
	b.WriteString("\n")

	for _, e := range p.Entries {
		switch e := e.(type) {
		case QAEntry:
			fmt.Fprintf(&b, "%s %s\n", label.Render(e.Label), e.Answer)
		case StatusEntry:
			switch e.Kind {
			case StatusRejection:
				b.WriteString(rejected.Render("• "+e.Text) + "\n")
			case StatusPromiseStage:
				b.WriteString(promise.Render("✨ "+e.Text) + "\n")
			default:
				b.WriteString(muted.Render("• "+e.Text) + "\n")
			}
		case MetadataEntry:
			b.WriteString(renderMeta(p, e, header, quote) + "\n")
		}
	}

	return box.Render(strings.TrimRight(b.String(), "\n"))
}

func renderMeta(p Parsed, m MetadataEntry, strong, quote lipgloss.Style) string {
	switch m.Key {
	case KeyFinal:
		if p.Day == models.DayPropose && p.Accepted {
			return strong.Render("SHE SAID YES! 💍") + " " + quote.Render(m.Value)
		}
		return "Final decision: " + quote.Render(fmt.Sprintf("%q", m.Value))
	case KeyPromise:
		return "Promise made: " + quote.Render(m.Value)
	case KeySweetness:
		return fmt.Sprintf("Sweetness: %s %d%%", sweetnessBar(p.Sweetness), p.Sweetness)
	case KeyChocolate:
		return "Selected: " + strong.Render(m.Value)
	case KeyTeddy:
		return "Selected teddy: " + strong.Render(m.Value)
	case KeyPromises:
		lines := make([]string, 0, len(p.Promises))
		for _, pr := range p.Promises {
			lines = append(lines, "  ✓ "+pr)
		}
		return "Promises kept:\n" + strings.Join(lines, "\n")
	case KeyHug:
		return "Hug: " + strong.Render(m.Value)
	case KeyKisses:
		return fmt.Sprintf("Kisses sent: %s", strong.Render(m.Value))
	case KeyDecisionType:
		badge := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("42"))
		if p.HardToGet {
			badge = badge.Foreground(lipgloss.Color("135"))
		}
		return "💍 Proposal accepted " + badge.Render("["+m.Value+"]")
	case KeyStatus:
		return lipgloss.NewStyle().Faint(true).Render(m.Value)
	default:
		return m.Key + ": " + m.Value
	}
}

func sweetnessBar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func firstRaw(p Parsed) string {
	for _, e := range p.Entries {
		if r, ok := e.(RawFallback); ok {
			return r.Text
		}
	}
	return ""
}

// Summary is a one-line digest of p for tables.
func Summary(p Parsed) string {
	if p.IsRaw() {
		return truncate(strings.Join(strings.Fields(firstRaw(p)), " "), 60)
	}

	var parts []string
	if n := len(p.QA()); n > 0 {
		parts = append(parts, plural(n, "answer"))
	}
	rejections := 0
	for _, st := range p.Statuses() {
		if st.Kind == StatusRejection {
			rejections++
		}
	}
	if rejections > 0 {
		parts = append(parts, plural(rejections, "refusal"))
	}

	switch p.Day {
	case models.DayPropose:
		if p.Accepted {
			parts = append(parts, "said yes")
		}
	case models.DayChocolate:
		if p.Chocolate != "" {
			parts = append(parts, p.Chocolate)
		}
		parts = append(parts, fmt.Sprintf("%d%% sweet", p.Sweetness))
	case models.DayTeddy:
		parts = append(parts, p.Teddy)
	case models.DayPromise:
		parts = append(parts, plural(len(p.Promises), "promise"))
	case models.DayHug:
		parts = append(parts, p.Hug)
	case models.DayKiss:
		parts = append(parts, plural(p.Kisses, "kiss"))
	case models.DayValentine:
		if p.FinalText != "" {
			parts = append(parts, fmt.Sprintf("%q", truncate(p.FinalText, 30)))
		}
		if p.DecisionType != "" {
			parts = append(parts, p.DecisionType)
		}
	}
	return strings.Join(parts, " · ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	if strings.HasSuffix(word, "s") {
		return fmt.Sprintf("%d %ses", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
