package ui

import (
	"io"

	"github.com/common-nighthawk/go-figure"
)

// Banner writes the giournal ASCII art greeting shown on first run.
func Banner(w io.Writer) {
	fig := figure.NewFigure("giournal", "small", true)
	if !noColor() {
		fig = figure.NewColorFigure("giournal", "small", "cyan", true)
	}
	figure.Write(w, fig)
}
