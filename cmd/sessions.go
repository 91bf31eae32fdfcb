package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/iksnae/hookchat/internal"
	"github.com/spf13/cobra"
)

var deleteYes bool

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new chat session",
	Long:  `Create an empty session at the top of the list and make it active.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			s := a.ctrl.NewChat()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.ID)
			return nil
		})
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <session-id>",
	Short: "Make a session active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if err := a.requireSession(args[0]); err != nil {
				return err
			}
			a.ctrl.SelectSession(args[0])
			internal.LogInfo("Active session is now %s", args[0])
			return nil
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <session-id> <title...>",
	Short: "Rename a session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args[1:], " "))
		if title == "" {
			return fmt.Errorf("title must not be empty")
		}
		return withApp(func(a *app) error {
			if err := a.requireSession(args[0]); err != nil {
				return err
			}
			a.ctrl.RenameSession(args[0], title)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <session-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session",
	Long: `Delete a session. Deleting the active session makes the first remaining
session active. Asks for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if err := a.requireSession(args[0]); err != nil {
				return err
			}
			if !deleteYes {
				s, _ := a.ctrl.Session(args[0])
				in := bufio.NewScanner(cmd.InOrStdin())
				if !confirm(in, cmd.ErrOrStderr(), fmt.Sprintf("Delete session %q?", s.Title)) {
					internal.PrintInfo(cmd.ErrOrStderr(), "Delete canceled")
					return nil
				}
			}
			a.ctrl.DeleteSession(args[0])
			if id, ok := a.ctrl.ActiveSessionID(); ok {
				internal.LogInfo("Deleted %s, active session is %s", args[0], id)
			} else {
				internal.LogInfo("Deleted %s, no sessions remain", args[0])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(newCmd, selectCmd, renameCmd, deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")
}
