package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/censusacs/pkg/census"
)

// maxPrintedRows caps the rows printed by the table format.
const maxPrintedRows = 50

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableBorderStyle = lipgloss.NewStyle().Foreground(colorDim)
	tableGEOIDStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	tableCursorStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

// rowView is a row-major copy of a result, used for terminal rendering.
type rowView struct {
	names []string
	rows  [][]string
	geoid int
}

func newRowView(res census.Result) rowView {
	cols := res.ColumnMajor()
	names := cols.Names()
	data := make([][]string, len(names))
	for j, name := range names {
		data[j], _ = cols.Column(name)
	}
	rows := make([][]string, res.Len())
	for i := range rows {
		row := make([]string, len(names))
		for j := range data {
			row[j] = data[j][i]
		}
		rows[i] = row
	}
	geoid := -1
	for j, name := range names {
		if name == census.GEOIDColumn {
			geoid = j
		}
	}
	return rowView{names: names, rows: rows, geoid: geoid}
}

// render draws rows [offset, offset+limit) as a bordered table. cursor is
// an absolute row index to highlight, or -1.
func (v rowView) render(offset, limit, cursor int) string {
	end := min(offset+limit, len(v.rows))
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(v.names...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return tableHeaderStyle
			case offset+row == cursor:
				return tableCursorStyle
			case col == v.geoid:
				return tableGEOIDStyle
			}
			return lipgloss.NewStyle()
		})
	if offset < end {
		t.Rows(v.rows[offset:end]...)
	}
	return t.Render()
}

// describeQuery returns a one-line summary such as "acs5 2023 county estimates".
func describeQuery(q census.Query) string {
	var b strings.Builder
	b.WriteString(string(q.Survey))
	if q.Year != 0 {
		fmt.Fprintf(&b, " %d", q.Year)
	}
	fmt.Fprintf(&b, " %s", q.Geography)
	if q.State != "" {
		fmt.Fprintf(&b, " in %s", q.State)
		if q.County != "" {
			fmt.Fprintf(&b, "/%s", q.County)
		}
	}
	if q.Family == census.MarginOfError {
		b.WriteString(" margins of error")
	} else {
		b.WriteString(" estimates")
	}
	return b.String()
}

// printResult prints a result as a styled table, truncated to maxPrintedRows.
func printResult(res census.Result, q census.Query) {
	if res.Len() == 0 {
		printWarning("No data rows for %s", describeQuery(q))
		return
	}

	fmt.Println(StyleTitle.Render(describeQuery(q)))
	fmt.Println(newRowView(res).render(0, maxPrintedRows, -1))

	if res.Len() > maxPrintedRows {
		printDetail("%d of %d rows shown", maxPrintedRows, res.Len())
		printNextStep("See all rows", "censusacs get ... --browse")
	} else {
		printDetail("%d rows", res.Len())
	}
}
