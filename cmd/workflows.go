package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/internal/session"
	"github.com/spf13/cobra"
)

var (
	extractExport string
	extractFormat string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <url>...",
	Short: "Index one or more URLs",
	Long:  `Send URLs to the backend to be scraped, chunked and embedded.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return oneShot(cmd, "ingestion", func(ctx context.Context, e *session.Engine) error {
			return e.Ingest(ctx, strings.Join(args, "\n"))
		})
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the agent one question",
	Long: `Send one chat message. The agent decides which tools to use; if it returns
tabular data, the records are shown as a table.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return oneShot(cmd, "chat", func(ctx context.Context, e *session.Engine) error {
			return e.Send(ctx, strings.Join(args, " "))
		})
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <type> [query]",
	Short: "Extract structured data directly",
	Long: `Run a direct extraction without the chat agent.

The type is "contacts" or any free-form category (for example "pricing").
The query is a URL or "all" for every indexed source (the default).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 1 {
			query = args[1]
		}
		var e *session.Engine
		err := oneShot(cmd, "extraction", func(ctx context.Context, engine *session.Engine) error {
			e = engine
			return e.Extract(ctx, args[0], query)
		})
		if err != nil {
			return err
		}

		if extractExport == "" && !cmd.Flags().Changed("format") {
			return nil
		}
		format := extractFormat
		if !cmd.Flags().Changed("format") {
			format = formatFor(extractExport, format)
		}
		path, err := e.ExportDataset(newSaver(), format, extractExport)
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render("⚠️  No records to export"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✅ Saved "+path))
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <url>",
	Short: "Summarize one page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return oneShot(cmd, "summarize", func(ctx context.Context, e *session.Engine) error {
			return e.Summarize(ctx, args[0])
		})
	},
}

// oneShot runs a single workflow in a fresh session and prints what it added
// to the transcript, followed by any extracted data.
func oneShot(cmd *cobra.Command, name string, fn func(ctx context.Context, e *session.Engine) error) error {
	e := newEngine()
	r := newRenderer(cmd.OutOrStdout())
	printer := &transcriptPrinter{engine: e, render: r, shown: len(e.Store().Snapshot().Transcript)}

	err := runWorkflow(cmd.Context(), e, func(ctx context.Context) error {
		return fn(ctx, e)
	})
	printer.flush()

	if err != nil {
		internal.LogDebug("%s failed: %v", name, err)
		return fmt.Errorf("%s failed: %w", name, err)
	}
	if snap := e.Store().Snapshot(); !snap.Dataset.Empty() {
		r.Table(snap.Dataset)
		r.Chart(snap.Buckets)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(ingestCmd, chatCmd, extractCmd, summarizeCmd)

	extractCmd.Flags().StringVar(&extractExport, "export", "", "Save the extracted records to this file name in the export directory")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "csv", "Export format (csv, json, jsonl, yaml, md, sqlite)")
}
