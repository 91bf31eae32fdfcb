package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/iksnae/hookchat/internal"
	"github.com/spf13/cobra"
)

var sendSession string

var sendCmd = &cobra.Command{
	Use:   "send <message...>",
	Short: "Send one message and print the reply",
	Long: `Send a message to the active session (or the one given with --session)
and print the assistant's reply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return fmt.Errorf("message must not be empty")
		}

		return withApp(func(a *app) error {
			if sendSession != "" {
				if err := a.requireSession(sendSession); err != nil {
					return err
				}
				a.ctrl.SelectSession(sendSession)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			reply, err := sendAndWait(ctx, a.ctrl, cmd, text)
			if err != nil {
				return err
			}
			r := newMessageRenderer(cmd.OutOrStdout(), showRaw)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.render(reply))
			return nil
		})
	},
}

// sendAndWait sends text with a spinner on stderr and returns the reply message
func sendAndWait(ctx context.Context, ctrl *internal.Controller, cmd *cobra.Command, text string) (internal.Message, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var sent bool
	err := internal.ShowProgress(ctx, cmd.ErrOrStderr(), "Thinking...", func() error {
		var sendErr error
		sent, sendErr = ctrl.SendMessage(ctx, text)
		return sendErr
	})
	if errors.Is(err, context.Canceled) {
		return internal.Message{}, fmt.Errorf("request canceled")
	}
	if err != nil {
		return internal.Message{}, err
	}
	if !sent {
		return internal.Message{}, fmt.Errorf("message not sent: no active session or a request is already pending")
	}

	s, ok := ctrl.ActiveSession()
	if !ok || len(s.Messages) == 0 {
		return internal.Message{}, fmt.Errorf("session disappeared before the reply arrived")
	}
	return s.Messages[len(s.Messages)-1], nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendSession, "session", "s", "", "Session to send to (default: active session)")
	sendCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the reply without markdown rendering")
}
