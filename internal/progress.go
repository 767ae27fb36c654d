package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ShowProgress runs fn behind a spinner with a fixed message
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !IsTerminal(os.Stderr) {
		LogDebug("%s", message)
	}
	return ShowStatus(ctx, func() string { return message }, fn)
}

// ShowStatus runs fn behind a spinner whose text is re-read from label on
// every tick, so a workflow can report its own progress label.
func ShowStatus(ctx context.Context, label func() string, fn func() error) error {
	if !IsTerminal(os.Stderr) {
		return fn()
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	i := 0
	last := ""
	for {
		select {
		case err := <-done:
			clearLine(os.Stderr, last)
			return err
		case <-ctx.Done():
			clearLine(os.Stderr, last)
			return ctx.Err()
		case <-ticker.C:
			msg := label()
			if msg == "" {
				msg = "Working..."
			}
			clearLine(os.Stderr, last)
			last = fmt.Sprintf("%s %s", spinnerChars[i%len(spinnerChars)], msg)
			fmt.Fprintf(os.Stderr, "\r%s %s", progressStyle.Render(spinnerChars[i%len(spinnerChars)]), msg)
			i++
		}
	}
}

func clearLine(w io.Writer, last string) {
	if last == "" {
		return
	}
	fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(last)))
}

// IsTerminal checks if the writer is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintError prints an error message
func PrintError(message string) {
	if IsTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", message)
	}
}
