package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/artboard/pkg/presence"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PresenceModel - Live collaborator list
// =============================================================================

// presenceMsg carries a fresh collaborator list from the poller.
type presenceMsg []presence.Record

// PresenceModel is the bubbletea model for watching collaborators on a
// canvas.
type PresenceModel struct {
	Canvas  string
	Records []presence.Record
	Cursor  int
	Offset  int
	Height  int
	Updated time.Time
	Now     func() time.Time
}

// NewPresenceModel creates an empty watch model for canvas.
func NewPresenceModel(canvas string) PresenceModel {
	return PresenceModel{Canvas: canvas, Height: 15, Now: time.Now}
}

func (m PresenceModel) Init() tea.Cmd {
	return nil
}

func (m PresenceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Records)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	case presenceMsg:
		m.Records = msg
		m.Updated = m.Now()
		if m.Cursor >= len(m.Records) {
			m.Cursor = max(len(m.Records)-1, 0)
		}
		m.Offset = min(m.Offset, m.Cursor)
	}
	return m, nil
}

func (m PresenceModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Collaborators on " + m.Canvas))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Records) == 0 {
		b.WriteString(listDimStyle.Render("  Nobody else is here."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if !m.Updated.IsZero() {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d active · updated %s", len(m.Records), m.Updated.Format("15:04:05"))))
	}
	return b.String()
}

func (m PresenceModel) table() string {
	end := min(m.Offset+m.Height, len(m.Records))
	now := m.Now()

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Records[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		pos := "—"
		if r.Cursor != nil {
			pos = fmt.Sprintf("%.0f, %.0f", r.Cursor.X, r.Cursor.Y)
		}
		rows = append(rows, []string{cursor, r.Initials(), r.Name, r.UserID, pos, formatRelativeTime(now, r.LastActive)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Name", "User", "Cursor", "Active").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Records) {
				return lipgloss.NewStyle()
			}
			if col == 1 {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.Records[idx].Color))
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(now, t time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 5*time.Second:
		return "now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	default:
		return t.Format("15:04")
	}
}
