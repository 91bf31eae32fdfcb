package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var titleCmd = &cobra.Command{
	Use:   "title [session-id]",
	Short: "Generate a title for a session",
	Long: `Ask the Gemini API for a short title summarizing the session's first message.

Needs GEMINI_API_KEY (or API_KEY). Without it, or when the request fails, the
first message truncated to 30 characters is used instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			s, err := a.sessionArg(args)
			if err != nil {
				return err
			}
			title, err := a.ctrl.ApplyGeneratedTitle(cmd.Context(), s.ID, newTitleSource(a.cfg))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), title)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(titleCmd)
}
