package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/hookchat/internal"
	"github.com/iksnae/hookchat/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	sessionID string
	toStdout  bool
	skipEmpty bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export chat sessions to various formats (jsonl, md, yaml, json).

You can export all sessions or a specific session by ID. Each session is written
to <out>/<session-id>.<ext>; --stdout writes to standard output instead.
Use 'hookchat list' to see available session IDs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		return withApp(func(a *app) error {
			sessions := a.ctrl.Sessions()

			if sessionID != "" {
				s, ok := a.ctrl.Session(sessionID)
				if !ok {
					return fmt.Errorf("%w: %s (use 'hookchat list' to see available sessions)", internal.ErrSessionNotFound, sessionID)
				}
				sessions = []internal.Session{s}
			}

			if skipEmpty {
				kept := sessions[:0]
				for _, s := range sessions {
					if len(s.Messages) > 0 {
						kept = append(kept, s)
					}
				}
				sessions = kept
			}

			if toStdout {
				for i := range sessions {
					if err := exporter.Export(&sessions[i], cmd.OutOrStdout()); err != nil {
						return fmt.Errorf("failed to export session %s: %w", sessions[i].ID, err)
					}
				}
				return nil
			}

			if len(sessions) == 0 {
				internal.PrintWarning(cmd.OutOrStdout(), "No sessions to export")
				return nil
			}

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			exported := 0
			err := internal.ShowProgress(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Exporting %d session(s) to %s", len(sessions), outputDir), func() error {
				for i := range sessions {
					if err := exportToFile(exporter, &sessions[i], outputDir); err != nil {
						internal.LogError("%v", err)
						continue
					}
					exported++
				}
				return nil
			})
			if err != nil {
				return err
			}

			if exported < len(sessions) {
				return fmt.Errorf("exported %d of %d session(s)", exported, len(sessions))
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d session(s) exported to %s", exported, outputDir))
			return nil
		})
	},
}

func exportToFile(exporter export.Exporter, session *internal.Session, dir string) error {
	path := filepath.Join(dir, export.Filename(session, exporter))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	if err := exporter.Export(session, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to export session %s: %w", session.ID, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&sessionID, "session-id", "", "Export a specific session by ID")
	exportCmd.Flags().BoolVar(&toStdout, "stdout", false, "Write to standard output instead of files")
	exportCmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "Skip sessions without messages")
}
