package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/censusacs/pkg/census"
)

func testBrowser(t *testing.T, rows int) BrowserModel {
	t.Helper()
	p := census.Payload{{"NAME", "B01003_001E", "state"}}
	for i := range rows {
		p = append(p, []string{"State", "1", fmt.Sprintf("%02d", i+1)})
	}
	res, err := census.Reshape(p, census.GeoState, census.ShapeTable)
	if err != nil {
		t.Fatal(err)
	}
	return newBrowserModel(res, census.Query{Survey: census.ACS5, Geography: census.GeoState})
}

func press(m BrowserModel, key string) BrowserModel {
	var msg tea.KeyMsg
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(BrowserModel)
}

func TestBrowserNavigation(t *testing.T) {
	m := testBrowser(t, 30)
	m.Height = 10

	m = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.Cursor)
	}

	for range 12 {
		m = press(m, "down")
	}
	if m.Cursor != 12 || m.Offset != 3 {
		t.Errorf("cursor = %d offset = %d, want 12 and 3", m.Cursor, m.Offset)
	}

	m = press(m, "G")
	if m.Cursor != 29 {
		t.Errorf("end: cursor = %d, want 29", m.Cursor)
	}
	m = press(m, "down")
	if m.Cursor != 29 {
		t.Errorf("cursor moved past the last row: %d", m.Cursor)
	}

	m = press(m, "g")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("home: cursor = %d offset = %d", m.Cursor, m.Offset)
	}
}

func TestBrowserResize(t *testing.T) {
	m := testBrowser(t, 5)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(BrowserModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
}

func TestBrowserViews(t *testing.T) {
	m := testBrowser(t, 3)
	if v := m.View(); !strings.Contains(v, "GEOID") || !strings.Contains(v, "[1/3]") {
		t.Errorf("table view missing header or position:\n%s", v)
	}

	m = press(m, "enter")
	if !m.Detail {
		t.Fatal("enter should open the detail view")
	}
	if v := m.View(); !strings.Contains(v, "B01003_001E") {
		t.Errorf("detail view missing column names:\n%s", v)
	}
}

func TestBrowserEmpty(t *testing.T) {
	m := testBrowser(t, 0)
	m = press(m, "down")
	m = press(m, "G")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d on empty result", m.Cursor)
	}
	if !strings.Contains(m.View(), "No data rows") {
		t.Error("empty view should say there are no rows")
	}
}

func TestBrowserQuit(t *testing.T) {
	m := testBrowser(t, 1)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
