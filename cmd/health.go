package cmd

import (
	"fmt"

	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	healthDetails bool
)

// healthCmd checks that the backend can be reached and reports what it serves
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the RAG backend is reachable",
	Long: `Check the health of the backend by verifying:
  • The configured backend address
  • The health endpoint and backend info (vector DB, LLM, tools)
  • The sources listing
  • The exports listing

This command is useful for debugging connection issues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx := cmd.Context()
		say := func(a ...any) { _, _ = fmt.Fprintln(out, a...) }

		say(sectionStyle.Render("🔍 RAG Backend Health Check"))
		say()

		// Step 1: Configuration
		say(infoStyle.Render("Step 1: Resolving backend address..."))
		say(successStyle.Render("✅ Backend: " + cfg.BaseURL))
		if healthDetails {
			say(fmt.Sprintf("   Timeout: %s", cfg.Timeout))
			say(fmt.Sprintf("   Export directory: %s", cfg.ExportDir))
		}
		say()

		// Step 2: Health probe
		say(infoStyle.Render("Step 2: Probing /health..."))
		e := newEngine()
		if e.Start(ctx) != internal.AvailabilityOnline {
			say(errorStyle.Render("❌ Backend unreachable"))
			say()
			say("Make sure the backend server is running on " + cfg.BaseURL)
			return fmt.Errorf("health check failed: backend unreachable at %s", cfg.BaseURL)
		}
		info := e.Store().Snapshot().Info
		say(successStyle.Render("✅ Backend online"))
		say(fmt.Sprintf("   Vector DB: %s", orUnknown(info.VectorDB)))
		say(fmt.Sprintf("   LLM: %s", orUnknown(info.LLMModel)))
		say(fmt.Sprintf("   Tools: %d", info.ToolCount))
		say()

		// Step 3: Sources
		say(infoStyle.Render("Step 3: Listing indexed sources..."))
		sources, err := e.RemoteSources(ctx)
		sourceCount := len(sources)
		if err != nil {
			say(warningStyle.Render("⚠️  Sources listing unavailable:"), err)
		} else if sourceCount > 0 {
			say(successStyle.Render(fmt.Sprintf("✅ Found %d source(s)", sourceCount)))
			if healthDetails {
				for i, s := range sources {
					if i < 5 { // Show first 5
						say(fmt.Sprintf("   [%d] %s", i+1, s))
					}
				}
				if sourceCount > 5 {
					say(fmt.Sprintf("   ... and %d more", sourceCount-5))
				}
			}
		} else {
			say(warningStyle.Render("⚠️  No sources indexed yet"))
		}
		say()

		// Step 4: Exports
		say(infoStyle.Render("Step 4: Listing server exports..."))
		files, err := e.RemoteExports(ctx)
		if err != nil {
			say(warningStyle.Render("⚠️  Exports listing unavailable:"), err)
		} else {
			say(successStyle.Render(fmt.Sprintf("✅ Found %d export file(s)", len(files))))
		}
		say()

		// Summary
		say(sectionStyle.Render("📊 Summary"))
		say()
		if sourceCount > 0 {
			say(successStyle.Render("✅ Health check passed!"))
			say(successStyle.Render(fmt.Sprintf("   • Sources: %d indexed", sourceCount)))
		} else {
			say(warningStyle.Render("⚠️  Backend online but nothing indexed"))
			say("   • Use 'ragchat ingest <url>' to add sources")
		}
		return nil
	},
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().BoolVarP(&healthDetails, "details", "d", false, "Show detailed diagnostic information")
}
