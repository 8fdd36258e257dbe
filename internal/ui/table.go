package ui

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table renders rows under a header with the rounded go-pretty style,
// or plain ASCII when colors are off.
func Table(w io.Writer, header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	if noColor() {
		t.SetStyle(table.StyleDefault)
	} else {
		t.SetStyle(table.StyleRounded)
		t.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}
	}

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		t.AppendRow(row)
	}

	t.Render()
}

// KeyValues renders a two-column table without a header.
func KeyValues(w io.Writer, pairs [][2]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if noColor() {
		t.SetStyle(table.StyleDefault)
	} else {
		t.SetStyle(table.StyleRounded)
	}
	for _, p := range pairs {
		t.AppendRow(table.Row{p[0], p[1]})
	}
	t.Render()
}
