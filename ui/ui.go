package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	isTTY bool

	cyan   = lipgloss.Color("6")
	green  = lipgloss.Color("2")
	red    = lipgloss.Color("1")
	yellow = lipgloss.Color("3")
	dim    = lipgloss.Color("8")

	// Styles - exported for use in other packages
	Primary = lipgloss.NewStyle().Foreground(cyan)
	Success = lipgloss.NewStyle().Foreground(green)
	Error   = lipgloss.NewStyle().Foreground(red)
	Warning = lipgloss.NewStyle().Foreground(yellow)
	Dim     = lipgloss.NewStyle().Foreground(dim)
	Bold    = lipgloss.NewStyle().Bold(true)
)

func init() {
	isTTY = term.IsTerminal(int(os.Stdout.Fd()))
	if !isTTY {
		// Disable colors in non-TTY
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsTTY returns whether stdout is a terminal
func IsTTY() bool {
	return isTTY
}

// Step prints a step indicator: [1/3] Backing up /home
func Step(num, total int, msg string) {
	prefix := Dim.Render(fmt.Sprintf("[%d/%d]", num, total))
	fmt.Printf("%s %s\n", prefix, msg)
}

// Detail prints indented secondary info with arrow
func Detail(msg string) {
	fmt.Printf("  %s %s\n", Dim.Render("→"), msg)
}

// SuccessMsg prints a success message with checkmark
func SuccessMsg(msg string) {
	fmt.Printf("%s %s\n", Success.Render("✓"), msg)
}

// ErrorMsg prints an error with formatting and optional hints
func ErrorMsg(title string, err error, hints ...string) {
	fmt.Printf("%s %s\n", Error.Render("✗"), title)
	if err != nil {
		fmt.Printf("  %s\n", Dim.Render(err.Error()))
	}
	for _, hint := range hints {
		fmt.Printf("  %s %s\n", Dim.Render("Hint:"), hint)
	}
}

// WarnMsg prints a warning message
func WarnMsg(msg string) {
	fmt.Printf("%s %s\n", Warning.Render("!"), msg)
}

// FormatDuration formats duration nicely (e.g., "234ms" or "1.2s")
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// Plural returns "1 task" or "3 tasks".
func Plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// Block returns captured tool output with exactly one trailing newline.
func Block(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}

// Println is a simple wrapper for fmt.Println
func Println(a ...any) {
	fmt.Println(a...)
}

// Printf is a simple wrapper for fmt.Printf
func Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}
