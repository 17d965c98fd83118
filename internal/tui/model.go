// Package tui is the full-screen countdown a partner sees while a day is
// still locked. It re-resolves the unlock status once per second.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/valweek/internal/confession"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/tui/components/countdown"
	"github.com/julianstephens/valweek/internal/unlock"
)

// StatusFunc resolves the day's unlock status. It is called on every tick.
type StatusFunc func(ctx context.Context) unlock.Status

type Options struct {
	Day         models.Day
	PartnerName string
	Content     models.DayContent
	Status      StatusFunc
}

type TickMsg time.Time

type Model struct {
	ctx       context.Context
	opts      Options
	status    unlock.Status
	countdown countdown.Model
	keys      KeyMap
	help      help.Model
	width     int
	height    int
	opened    bool
	quitting  bool
}

func New(ctx context.Context, opts Options) Model {
	m := Model{
		ctx:       ctx,
		opts:      opts,
		countdown: countdown.New(confession.ColorFor(opts.Day)),
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	m.status = m.opts.Status(m.ctx)
	m.countdown.Set(unlock.FormatRemaining(m.status.Remaining))
}

// Unlocked reports whether the day was unlocked when the program exited.
func (m Model) Unlocked() bool {
	return m.status.Unlocked
}

// Opened reports whether the partner chose to open the unlocked day.
func (m Model) Opened() bool {
	return m.opened
}

func (m Model) ShortHelp() []key.Binding {
	if m.status.Unlocked {
		return []key.Binding{m.keys.Open, m.keys.Quit, m.keys.Help}
	}
	return []key.Binding{m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Open}, {m.keys.Quit, m.keys.Help}}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	if m.status.Unlocked {
		return nil
	}
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Open):
			if m.status.Unlocked {
				m.opened = true
				return m, tea.Quit
			}
		}
		return m, nil

	case TickMsg:
		m.refresh()
		if m.status.Unlocked {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting || m.opened {
		return ""
	}

	accent := confession.ColorFor(m.opts.Day)
	title := titleStyle.Foreground(accent).Render(m.opts.Day.Emoji() + "  " + m.opts.Day.Title())

	var body string
	if m.status.Unlocked {
		body = lipgloss.JoinVertical(lipgloss.Center,
			messageStyle.BorderForeground(accent).Render(m.opts.Content.Message),
			subtitleStyle.Render("It's time! Press enter to open."),
		)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Center,
			subtitleStyle.Render("Something special for "+m.opts.PartnerName+" unlocks in"),
			"",
			m.countdown.View(),
		)
	}

	parts := []string{title}
	if m.status.Preview {
		parts = append(parts, previewBadgeStyle.Render("PREVIEW"))
	}
	parts = append(parts, body, "", m.help.View(m))
	ui := docStyle.Render(lipgloss.JoinVertical(lipgloss.Center, parts...))

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, ui)
	}
	return ui
}

// Run shows the countdown until the partner quits or opens the day.
func Run(ctx context.Context, opts Options) (Model, error) {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Model{}, err
	}
	return final.(Model), nil
}
