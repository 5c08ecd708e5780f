package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/censusacs/pkg/census"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(16)
	detailValStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	detailPaneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// =============================================================================
// BrowserModel - Interactive result browser
// =============================================================================

// BrowserModel is the bubbletea model for paging through a result.
type BrowserModel struct {
	Title  string
	Data   rowView
	Cursor int
	Height int
	Offset int
	Detail bool
}

func newBrowserModel(res census.Result, q census.Query) BrowserModel {
	return BrowserModel{
		Title:  describeQuery(q),
		Data:   newRowView(res),
		Height: 15,
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Data.rows)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
			}
		case "pgup", "b":
			m.Cursor = max(m.Cursor-m.Height, 0)
		case "pgdown", "f", " ":
			m.Cursor = max(min(m.Cursor+m.Height, n-1), 0)
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(n-1, 0)
		case "enter":
			m.Detail = !m.Detail
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *BrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Data.rows) == 0 {
		b.WriteString(StyleWarning.Render("No data rows"))
		return b.String()
	}

	if m.Detail {
		b.WriteString(m.detailView())
	} else {
		b.WriteString(m.Data.render(m.Offset, m.Height, m.Cursor))
	}
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Data.rows))))

	return b.String()
}

// detailView lists every column of the selected row, one per line.
func (m BrowserModel) detailView() string {
	row := m.Data.rows[m.Cursor]
	lines := make([]string, len(row))
	for j, v := range row {
		if v == "" {
			v = StyleDim.Render("(null)")
		}
		lines[j] = detailKeyStyle.Render(m.Data.names[j]) + " " + detailValStyle.Render(v)
	}
	return detailPaneStyle.Render(strings.Join(lines, "\n"))
}
