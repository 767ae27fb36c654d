package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/internal/export"
	"github.com/iksnae/ragchat/internal/render"
	"github.com/iksnae/ragchat/internal/session"
	"github.com/spf13/cobra"
)

const interactiveHelp = `Type a message to chat with the agent, or use a command:

  /ingest [url...]          Index URLs (no arguments: one URL per line, empty line to finish)
  /extract <type> [query]   Direct extraction; type "contacts" or any category, query a URL or "all"
  /summarize <url>          Summarize one page
  /sources [remote]         Indexed sources (this session, or as the backend reports them)
  /log                      Agent activity, most recent first
  /data                     Extracted records as a table
  /chart                    Records per category
  /export [file]            Save extracted records (format from the extension, default csv)
  /exports                  List exports built by the backend
  /fetch <name>             Download a backend export
  /save [file]              Save the transcript (format from the extension, default md)
  /refresh                  Check the backend again
  /status                   Backend and session status
  /help                     Show this help
  /quit                     Leave`

func runInteractive(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	e := newEngine()
	r := newRenderer(out)
	s := &shell{
		engine:  e,
		render:  r,
		saver:   newSaver(),
		in:      bufio.NewScanner(cmd.InOrStdin()),
		out:     out,
		printer: &transcriptPrinter{engine: e, render: r},
	}
	return s.run(cmd.Context())
}

// shell is the interactive front end of one session
type shell struct {
	engine  *session.Engine
	render  *render.Renderer
	saver   export.Saver
	in      *bufio.Scanner
	out     io.Writer
	printer *transcriptPrinter
}

func (s *shell) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *shell) notice(style func(...string) string, msg string) {
	s.printf("%s\n", style(msg))
}

func (s *shell) run(ctx context.Context) error {
	s.render.Header(s.engine.Store().Snapshot())
	s.engine.Start(ctx)
	s.render.Status(s.engine.Store().Snapshot())
	s.printf("\n")
	s.printer.flush()
	s.notice(infoStyle.Render, "Type /help for commands.")

	for {
		s.printf("› ")
		if !s.in.Scan() {
			s.printf("\n")
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if quit := s.handle(ctx, line); quit {
			return nil
		}
	}
}

// handle executes one input line and reports whether the session should end
func (s *shell) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, "/") {
		s.workflow(ctx, func(ctx context.Context) error {
			return s.engine.Send(ctx, line)
		})
		return false
	}

	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	snap := s.engine.Store().Snapshot()

	switch name {
	case "/quit", "/exit", "/q":
		return true
	case "/help", "/?":
		s.printf("%s\n", interactiveHelp)
	case "/ingest":
		if err := s.engine.Ready(); err != nil {
			s.render.Banner(snap)
			break
		}
		raw := strings.Join(args, "\n")
		if raw == "" {
			raw = s.readURLs(snap.URLDraft)
		}
		s.workflow(ctx, func(ctx context.Context) error {
			return s.engine.Ingest(ctx, raw)
		})
	case "/extract":
		if len(args) == 0 {
			s.notice(warningStyle.Render, "Usage: /extract <type> [query]")
			break
		}
		query := strings.Join(args[1:], " ")
		s.workflow(ctx, func(ctx context.Context) error {
			return s.engine.Extract(ctx, args[0], query)
		})
	case "/summarize":
		if len(args) != 1 {
			s.notice(warningStyle.Render, "Usage: /summarize <url>")
			break
		}
		s.workflow(ctx, func(ctx context.Context) error {
			return s.engine.Summarize(ctx, args[0])
		})
	case "/sources":
		if len(args) > 0 && args[0] == "remote" {
			sources, err := s.engine.RemoteSources(ctx)
			if err != nil {
				s.notice(errorStyle.Render, "❌ "+err.Error())
				break
			}
			s.render.Sources("🌐 Backend sources", sources)
			break
		}
		s.render.Sources("🌐 Indexed sources", snap.Sources)
	case "/log":
		s.render.ActivityLog(s.engine.Log().Recent())
	case "/data":
		s.render.Table(snap.Dataset)
	case "/chart":
		s.render.Chart(snap.Buckets)
	case "/export":
		fileName := strings.Join(args, " ")
		path, err := s.engine.ExportDataset(s.saver, formatFor(fileName, "csv"), fileName)
		s.saved(path, err, "No extracted data to export")
	case "/save":
		fileName := strings.Join(args, " ")
		path, err := s.engine.SaveTranscript(s.saver, formatFor(fileName, "md"), fileName)
		s.saved(path, err, "")
	case "/exports":
		files, err := s.engine.RemoteExports(ctx)
		if err != nil {
			s.notice(errorStyle.Render, "❌ "+err.Error())
			break
		}
		s.render.Files(files)
	case "/fetch":
		if len(args) != 1 {
			s.notice(warningStyle.Render, "Usage: /fetch <name>")
			break
		}
		path, err := s.engine.FetchExport(ctx, args[0], s.saver)
		s.saved(path, err, "")
	case "/refresh":
		s.engine.RefreshHealth(ctx)
		s.render.Status(s.engine.Store().Snapshot())
	case "/status":
		s.render.Header(snap)
		s.render.Status(snap)
	default:
		s.notice(warningStyle.Render, fmt.Sprintf("Unknown command %s, try /help", name))
	}
	return false
}

// workflow runs a controller behind the spinner and prints the new messages.
// Failures are already in the transcript, so only gate errors are reported.
func (s *shell) workflow(ctx context.Context, fn func(ctx context.Context) error) {
	if err := s.engine.Ready(); err != nil {
		s.render.Banner(s.engine.Store().Snapshot())
		return
	}
	err := runWorkflow(ctx, s.engine, fn)
	if errors.Is(err, session.ErrBusy) {
		s.notice(warningStyle.Render, "⏳ "+err.Error())
	}
	s.printer.flush()
}

// readURLs collects one URL per line until an empty line. With no input the
// kept draft from a failed ingestion is resubmitted.
func (s *shell) readURLs(draft string) string {
	if draft != "" {
		s.notice(infoStyle.Render, "Press enter on an empty line to resubmit:\n"+draft)
	} else {
		s.notice(infoStyle.Render, "Enter one URL per line, empty line to finish:")
	}
	var lines []string
	for s.in.Scan() {
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return draft
	}
	raw := strings.Join(lines, "\n")
	s.engine.SetURLDraft(raw)
	return raw
}

func (s *shell) saved(path string, err error, emptyMsg string) {
	switch {
	case err != nil:
		s.notice(errorStyle.Render, "❌ "+err.Error())
	case path == "":
		s.notice(warningStyle.Render, "⚠️  "+emptyMsg)
	default:
		s.notice(successStyle.Render, "✅ Saved "+path)
	}
	internal.LogDebug("save result: path=%q err=%v", path, err)
}
