package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/nhath/ferrumdb/internal/session"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

const maxColumnWidth = 40

// chrome is the number of lines outside the results pane:
// status bar, input border, input line, message line and help line
const chrome = 5

func (m Model) View() string {
	snap := m.ctrl.State.Snapshot()

	paneHeight := m.height - chrome
	if paneHeight < 3 {
		paneHeight = 3
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatusBar(snap),
		m.renderInput(snap),
		m.renderResultsPane(snap, paneHeight),
		m.renderMessage(snap),
		m.help.View(helpKeys(snap.Mode)),
	)
}

func (m Model) renderStatusBar(snap session.Snapshot) string {
	mode := NavigationModeStyle.Render(snap.Mode.String())
	if snap.Mode == session.Editing {
		mode = EditingModeStyle.Render(snap.Mode.String())
	}

	conn := DisconnectedStyle.Render("disconnected")
	if snap.Connected {
		conn = ConnectionStyle.Render(m.label)
	}

	parts := []string{mode, conn}
	var where []string
	if snap.Database != "" {
		where = append(where, "db: "+snap.Database)
	}
	if snap.Schema != "" {
		where = append(where, "schema: "+snap.Schema)
	}
	if len(where) > 0 {
		parts = append(parts, ConnectionStyle.Render(strings.Join(where, "  ")))
	}

	return StatusBarStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func (m Model) renderInput(snap session.Snapshot) string {
	prompt := PromptStyle.Render("SQL>")
	if snap.Mode != session.Editing {
		if snap.Input == "" {
			return InputStyle.Width(m.width).Render(prompt + MetaStyle.Render("press i to write a query"))
		}
		return InputStyle.Width(m.width).Render(prompt + m.highlighter.Render(snap.Input, -1))
	}
	return InputStyle.Width(m.width).Render(prompt + m.highlighter.Render(snap.Input, snap.Cursor))
}

func (m Model) renderResultsPane(snap session.Snapshot, height int) string {
	pane := lipgloss.Place(m.width, height, lipgloss.Left, lipgloss.Top, m.renderResults(snap.Result, height))

	if snap.Error == "" {
		return pane
	}

	boxWidth := lipgloss.Width(snap.Error) + 2
	if limit := m.width - 6; boxWidth > limit && limit > 0 {
		boxWidth = limit
	}
	box := ErrorBoxStyle.Width(boxWidth).Render(snap.Error)
	return overlay.Composite(box, pane, overlay.Center, overlay.Center, 0, 0)
}

func (m Model) renderResults(r *session.QueryResult, height int) string {
	if r == nil {
		return MetaStyle.Render("No results")
	}
	if r.ColumnCount() == 0 {
		if n, ok := r.AffectedRows(); ok {
			return SuccessStyle.Render(fmt.Sprintf("%d rows affected", n))
		}
		return MetaStyle.Render("Statement executed")
	}
	return resultsTable(r, m.width, height).View()
}

// resultsTable builds a read-only grid. Columns are keyed by position so
// duplicate header names still get their own column.
func resultsTable(r *session.QueryResult, width, height int) table.Model {
	headers := r.Headers()
	widths := columnWidths(headers, r.Rows())

	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.NewColumn(strconv.Itoa(i), h, widths[i])
	}

	rows := make([]table.Row, 0, r.RowCount())
	for _, row := range r.Rows() {
		data := table.RowData{}
		for i, v := range row {
			if v == "NULL" {
				data[strconv.Itoa(i)] = table.NewStyledCell(v, NullCellStyle)
				continue
			}
			data[strconv.Itoa(i)] = v
		}
		rows = append(rows, table.NewRow(data))
	}

	// borders, header and footer take six lines
	pageSize := height - 6
	if pageSize < 1 {
		pageSize = 1
	}

	t := table.New(cols).
		WithRows(rows).
		WithBaseStyle(TableBaseStyle).
		HeaderStyle(TableHeaderStyle).
		BorderRounded().
		Focused(false).
		WithPageSize(pageSize)
	if width > 0 {
		t = t.WithMaxTotalWidth(width)
	}
	return t
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, v := range row {
			if w := lipgloss.Width(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
		if widths[i] < 1 {
			widths[i] = 1
		}
	}
	return widths
}

// renderMessage shows the status line. Errors are drawn over the results pane instead.
func (m Model) renderMessage(snap session.Snapshot) string {
	if snap.Status != "" {
		return SuccessStyle.Render(snap.Status)
	}
	return ""
}
