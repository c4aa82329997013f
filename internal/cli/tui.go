package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/screenlint/screenlint/pkg/detect"
	"github.com/screenlint/screenlint/pkg/report"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// IssueBrowserModel - Interactive issue browsing
// =============================================================================

// issueRow is one flattened report issue with its category name.
type issueRow struct {
	Category string
	Issue    report.Issue
}

// IssueBrowserModel is the bubbletea model for browsing report issues.
// It shows a scrollable list and a per-issue detail view.
type IssueBrowserModel struct {
	Rows   []issueRow
	Cursor int
	Offset int
	Height int
	Detail bool

	dims [2]int
}

// NewIssueBrowserModel flattens the report's categories into a browsable list.
func NewIssueBrowserModel(rep *report.Report) IssueBrowserModel {
	var rows []issueRow
	for _, cat := range rep.Categories {
		for _, issue := range cat.Issues {
			rows = append(rows, issueRow{Category: cat.Name, Issue: issue})
		}
	}
	return IssueBrowserModel{
		Rows:   rows,
		Height: 15,
		dims:   rep.ImageDimensions,
	}
}

func (m IssueBrowserModel) Init() tea.Cmd {
	return nil
}

func (m IssueBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Detail {
				return m, nil
			}
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Detail {
				return m, nil
			}
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) > 0 {
				m.Detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m IssueBrowserModel) View() string {
	if m.Detail {
		return m.detailView()
	}
	return m.listView()
}

func (m IssueBrowserModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Accessibility Issues"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %dx%dpx", m.dims[0], m.dims[1])))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(StyleSuccess.Render("No issues found"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.Issue.Severity, r.Category, truncate(r.Issue.Description, 60)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "Severity", "Category", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col == 1 {
				base = base.Foreground(severityColor(m.Rows[actualIdx].Issue.Severity))
			} else if actualIdx != m.Cursor {
				base = base.Foreground(colorGray)
			}
			if actualIdx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m IssueBrowserModel) detailView() string {
	r := m.Rows[m.Cursor]
	var b strings.Builder

	sevStyle := lipgloss.NewStyle().Bold(true).Foreground(severityColor(r.Issue.Severity))
	b.WriteString(StyleTitle.Render(r.Category))
	b.WriteString("  ")
	b.WriteString(sevStyle.Render(r.Issue.Severity))
	b.WriteString("\n\n")

	b.WriteString(StyleValue.Render(r.Issue.Description))
	b.WriteString("\n\n")

	if r.Issue.Bounds != nil {
		bo := r.Issue.Bounds
		b.WriteString(renderField("bounds", fmt.Sprintf("[%d,%d][%d,%d]", bo.Left, bo.Top, bo.Right, bo.Bottom)))
	}
	for _, f := range r.Issue.ElementInfo {
		b.WriteString(renderField(f.Key, formatFieldValue(f.Value)))
	}

	if r.Issue.FixSuggestion != "" {
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render("fix "))
		b.WriteString(StyleValue.Render(r.Issue.FixSuggestion))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  esc back  q quit", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// renderField renders one key-value detail line.
func renderField(key, value string) string {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(16)
	return keyStyle.Render(key) + " " + StyleValue.Render(value) + "\n"
}

// formatFieldValue flattens nested element info for display.
func formatFieldValue(v any) string {
	switch val := v.(type) {
	case detect.ElementInfo:
		parts := make([]string, 0, len(val))
		for _, f := range val {
			parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		return strings.Join(parts, "  ")
	case string:
		if val == "" {
			return "—"
		}
		return val
	default:
		return fmt.Sprintf("%v", v)
	}
}

// severityColor maps a severity to its display color.
func severityColor(severity string) lipgloss.Color {
	if severity == detect.SeverityHigh {
		return colorRed
	}
	return colorYellow
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// runIssueBrowser opens the interactive issue list. The program renders
// to stderr so report JSON piped from stdout stays clean.
func runIssueBrowser(rep *report.Report) error {
	model := NewIssueBrowserModel(rep)
	_, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run()
	return err
}
