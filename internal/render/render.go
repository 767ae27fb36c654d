// Package render paints session snapshots for the terminal.
package render

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/ragchat/internal"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultWidth is the wrap width used when none is configured
const DefaultWidth = 80

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	onlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)

	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// Options configures a Renderer
type Options struct {
	// Markdown renders assistant replies through glamour
	Markdown bool
	// Width is the wrap width; DefaultWidth when zero
	Width int
	// Styled picks the dark glamour style instead of the plain one
	Styled bool
}

// Renderer writes session views to w
type Renderer struct {
	w        io.Writer
	width    int
	md       *glamour.TermRenderer
	sanitize *bluemonday.Policy
}

// New creates a Renderer. If the markdown renderer cannot be built,
// replies fall back to plain text.
func New(w io.Writer, opts Options) *Renderer {
	r := &Renderer{
		w:        w,
		width:    opts.Width,
		sanitize: bluemonday.StrictPolicy(),
	}
	if r.width <= 0 {
		r.width = DefaultWidth
	}
	if opts.Markdown {
		style := "notty"
		if opts.Styled {
			style = "dark"
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithStylePath(style),
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			internal.LogWarn("Markdown rendering disabled: %v", err)
		} else {
			r.md = md
		}
	}
	return r
}

// htmlTag matches a well-formed start or end tag whose attributes, if any,
// are quoted name=value pairs. Text such as "Ada <ada@x.com>" or
// "a<b and c>d" does not match.
var htmlTag = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(?:\s+[a-zA-Z_:][-a-zA-Z0-9_:.]*\s*=\s*(?:"[^"]*"|'[^']*'))*\s*/?>`)

// Plain removes terminal escape sequences from backend text
func Plain(text string) string {
	return ansi.Strip(text)
}

// Clean strips terminal escapes and any HTML elements the backend sent.
// A '<' that does not open a tag is kept as text. Entities produced by the
// sanitizer are decoded again so text like "Q&A" survives.
func (r *Renderer) Clean(text string) string {
	text = Plain(text)
	tags := htmlTag.FindAllStringIndex(text, -1)
	if len(tags) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range tags {
		b.WriteString(strings.ReplaceAll(text[last:loc[0]], "<", "&lt;"))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(strings.ReplaceAll(text[last:], "<", "&lt;"))
	return html.UnescapeString(r.sanitize.Sanitize(b.String()))
}

// escapeAngles backslash-escapes '<' outside code so markdown keeps
// "<ada@x.com>" as literal text instead of raw HTML or an autolink
func escapeAngles(md string) string {
	lines := strings.Split(md, "\n")
	fenced := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			fenced = !fenced
			continue
		}
		if fenced {
			continue
		}
		var b strings.Builder
		inCode := false
		for _, c := range line {
			switch {
			case c == '`':
				inCode = !inCode
			case c == '<' && !inCode:
				b.WriteByte('\\')
			}
			b.WriteRune(c)
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Header prints the session title line
func (r *Renderer) Header(snap internal.Snapshot) {
	r.println(headerStyle.Render("💬 ragchat session"))
	parts := []string{
		"ID: " + snap.SessionID,
		fmt.Sprintf("Messages: %d", len(snap.Transcript)),
		fmt.Sprintf("Sources: %d", len(snap.Sources)),
	}
	r.println(metaStyle.Render(strings.Join(parts, " • ")))
	r.println()
}

// Availability renders the backend badge text
func Availability(snap internal.Snapshot) string {
	switch snap.Availability {
	case internal.AvailabilityOnline:
		return onlineStyle.Render("● API Connected")
	case internal.AvailabilityOffline:
		return offlineStyle.Render("● API Offline")
	default:
		return metaStyle.Render("● Checking...")
	}
}

// Status prints availability, backend info and the workflow status
func (r *Renderer) Status(snap internal.Snapshot) {
	r.println(Availability(snap))
	if snap.Availability == internal.AvailabilityOnline {
		info := snap.Info
		r.println(metaStyle.Render(fmt.Sprintf("  Vector DB: %s • LLM: %s • Tools: %d",
			orNA(info.VectorDB), orNA(info.LLMModel), info.ToolCount)))
	}
	if snap.Status == internal.StatusBusy {
		r.println(busyStyle.Render("  ⏳ " + snap.StatusLabel))
	}
	r.Banner(snap)
}

// Banner prints the offline warning when the backend is unreachable
func (r *Renderer) Banner(snap internal.Snapshot) {
	if snap.Availability != internal.AvailabilityOffline {
		return
	}
	r.println(bannerStyle.Render("Backend unreachable. Workflows are disabled until it recovers; try /refresh."))
}

// Transcript prints every message in order
func (r *Renderer) Transcript(msgs []internal.Message) {
	for i, msg := range msgs {
		r.Message(i+1, len(msgs), msg)
	}
}

// Message prints one transcript entry with its attribution
func (r *Renderer) Message(index, total int, msg internal.Message) {
	header := actorLabel(msg) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if !msg.Timestamp.IsZero() {
		header += " " + timestampStyle.Render(msg.Timestamp.Format("15:04:05"))
	}
	r.println(header)

	content := strings.TrimSpace(r.Clean(msg.Content))
	switch {
	case content == "":
		r.println(contentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	case msg.Failed:
		r.println(failedStyle.Width(r.width).Render("❌ " + content))
	case msg.Role == internal.RoleAssistant && r.md != nil:
		out, err := r.md.Render(escapeAngles(content))
		if err != nil {
			internal.LogDebug("markdown render failed: %v", err)
			out = content
		}
		r.println(strings.TrimRight(out, "\n"))
	default:
		r.println(contentStyle.Width(r.width).Render(content))
	}

	if n := len(msg.ExportData); n > 0 {
		r.println(metaStyle.Render(fmt.Sprintf("  📦 %s attached (/data to view, /export to save)", humanize.Comma(int64(n))+" record(s)")))
	}
	r.println()
}

func actorLabel(msg internal.Message) string {
	if msg.Role == internal.RoleUser {
		return userStyle.Render("👤 You")
	}
	if msg.Agent == nil {
		return metaStyle.Render("🔧 " + string(msg.Role))
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(msg.Agent.Color)).Bold(true)
	return style.Render(msg.Agent.Icon + " " + msg.Agent.Name)
}

// ActivityLog prints entries most recent first. Entries must already be in
// display order (see session.ActivityLog.Recent).
func (r *Renderer) ActivityLog(entries []internal.LogEntry) {
	if len(entries) == 0 {
		r.println(metaStyle.Render("No agent activity yet"))
		return
	}
	r.println(titleStyle.Render(fmt.Sprintf("Agent activity (%d)", len(entries))))
	for _, e := range entries {
		agent := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Agent.Color)).Render(e.Agent.Icon + " " + e.Agent.Name)
		r.println(fmt.Sprintf("%s %s %s", timestampStyle.Render(e.Time), agent, countStyle.Render(e.Action)))
		if e.Detail != "" {
			r.println(metaStyle.Render("    " + Plain(e.Detail)))
		}
	}
}

// Sources prints the indexed source list
func (r *Renderer) Sources(title string, urls []string) {
	if len(urls) == 0 {
		r.println(metaStyle.Render("No sources indexed"))
		return
	}
	r.println(titleStyle.Render(fmt.Sprintf("%s (%d)", title, len(urls))))
	for i, u := range urls {
		r.println(fmt.Sprintf("  %s %s", timestampStyle.Render(fmt.Sprintf("%2d.", i+1)), u))
	}
}

// Files prints export file names
func (r *Renderer) Files(names []string) {
	if len(names) == 0 {
		r.println(metaStyle.Render("No exports on the server"))
		return
	}
	r.println(titleStyle.Render(fmt.Sprintf("📁 Server exports (%d)", len(names))))
	for _, name := range names {
		r.println("  " + name)
	}
}

// Table prints a dataset with the first record's columns as header
func (r *Renderer) Table(ds internal.Dataset) {
	if ds.Empty() {
		r.println(metaStyle.Render("No extracted data"))
		return
	}
	columns := ds.Columns()
	r.println(titleStyle.Render(fmt.Sprintf("📊 Extracted data (%s records)", humanize.Comma(int64(len(ds))))))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(metaStyle).
		Headers(columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	for _, rec := range ds {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = cell(Plain(rec.Text(col)))
		}
		t.Row(cells...)
	}
	r.println(t.String())
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if runes := []rune(s); len(runes) > 40 {
		return string(runes[:37]) + "..."
	}
	return s
}

// Chart prints one horizontal bar per bucket, scaled to the largest count
func (r *Renderer) Chart(buckets []internal.ChartBucket) {
	if len(buckets) == 0 {
		r.println(metaStyle.Render("No data to chart"))
		return
	}
	r.println(titleStyle.Render("📈 Records by category"))

	labelWidth, maxCount := 0, 0
	for _, b := range buckets {
		labelWidth = max(labelWidth, len([]rune(b.Label)))
		maxCount = max(maxCount, b.Count)
	}
	barWidth := max(r.width-labelWidth-12, 10)
	for _, b := range buckets {
		n := b.Count * barWidth / maxCount
		if n == 0 {
			n = 1
		}
		label := b.Label + strings.Repeat(" ", labelWidth-len([]rune(b.Label)))
		r.println(fmt.Sprintf("  %s %s %s", label, countStyle.Render(strings.Repeat("█", n)), humanize.Comma(int64(b.Count))))
	}
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
