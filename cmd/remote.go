package cmd

import (
	"fmt"

	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List sources the backend has indexed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sources []string
		err := internal.ShowProgress(cmd.Context(), "Listing sources...", func() error {
			var err error
			sources, err = newEngine().RemoteSources(cmd.Context())
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}
		newRenderer(cmd.OutOrStdout()).Sources("🌐 Indexed sources", sources)
		return nil
	},
}

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List or download exports built by the backend",
}

var exportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List export files on the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		err := internal.ShowProgress(cmd.Context(), "Listing exports...", func() error {
			var err error
			files, err = newEngine().RemoteExports(cmd.Context())
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to list exports: %w", err)
		}
		newRenderer(cmd.OutOrStdout()).Files(files)
		return nil
	},
}

var exportsFetchCmd = &cobra.Command{
	Use:   "fetch <name>...",
	Short: "Download export files into the export directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEngine()
		saver := newSaver()
		var failed int
		for _, name := range args {
			path, err := e.FetchExport(cmd.Context(), name, saver)
			if err != nil {
				failed++
				fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("❌ "+name+": "+err.Error()))
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✅ Saved "+path))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d download(s) failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd, exportsCmd)
	exportsCmd.AddCommand(exportsListCmd, exportsFetchCmd)
}
