package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/internal/export"
	"github.com/iksnae/ragchat/internal/gateway"
	"github.com/iksnae/ragchat/internal/render"
	"github.com/iksnae/ragchat/internal/session"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

func newClient() *gateway.Client {
	return gateway.New(cfg.BaseURL, gateway.WithUserAgent("ragchat/"+version))
}

func newEngine() *session.Engine {
	return session.NewEngine(newClient(), session.WithTimeout(cfg.Timeout))
}

func newRenderer(w io.Writer) *render.Renderer {
	return render.New(w, render.Options{
		Markdown: cfg.Markdown,
		Styled:   internal.IsTerminal(os.Stdout),
	})
}

func newSaver() *export.DirSaver {
	return export.NewDirSaver(cfg.ExportDir)
}

// runWorkflow runs fn behind a spinner that shows the engine's progress label
func runWorkflow(ctx context.Context, e *session.Engine, fn func(ctx context.Context) error) error {
	return internal.ShowStatus(ctx, e.Store().Label, func() error {
		return fn(ctx)
	})
}

// transcriptPrinter prints only the messages a workflow appended
type transcriptPrinter struct {
	engine *session.Engine
	render *render.Renderer
	shown  int
}

func (p *transcriptPrinter) flush() {
	msgs := p.engine.Store().Snapshot().Transcript
	for i := p.shown; i < len(msgs); i++ {
		p.render.Message(i+1, len(msgs), msgs[i])
	}
	p.shown = len(msgs)
}

// formatFor picks the export format from a file name's extension
func formatFor(name, fallback string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return fallback
	}
	if _, err := export.NewExporter(ext); err != nil {
		return fallback
	}
	return ext
}
