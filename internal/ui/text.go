package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor returns true if color output should be disabled.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code formats runnable commands. Backticks without color.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file or directory paths.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Entry formats entry file names. Quoted without color.
	Entry = Formatter{color.New(color.FgMagenta), "'", "'"}

	// Success formats success indicators and messages.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error formats error indicators and messages.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning formats warning indicators and messages.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info formats hints and directional indicators.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Heading formats entry headers in listings.
	Heading = Formatter{color.New(color.FgCyan, color.Bold), "", ""}

	// Muted formats secondary text. Parenthesised without color.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)

// Symbols prefixed to final command messages.
var (
	Tick  = "✓"
	Cross = "✗"
	Arrow = "→"
)

// SuccessLine returns "✓ msg" with the tick colored.
func SuccessLine(msg string) string {
	return Success.Sprint(Tick) + " " + msg
}

// ErrorLine returns "✗ msg" with the cross colored.
func ErrorLine(msg string) string {
	return Error.Sprint(Cross) + " " + msg
}

// HintLine returns "→ msg" with the arrow colored.
func HintLine(msg string) string {
	return Info.Sprint(Arrow) + " " + msg
}
