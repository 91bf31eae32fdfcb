package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/hookchat/internal"
	"github.com/spf13/cobra"
)

var chatSession string

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

const chatHelp = `Commands:
  /new                 start a new session
  /list                list sessions
  /select <id>         switch to a session
  /rename <title>      rename the current session
  /delete [id]         delete a session after confirming (default: current)
  /suggest <n>         send suggestion n on an empty session (a bare n works too)
  /title               generate a title for the current session
  /help                show this help
  /quit                leave the chat`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Start an interactive chat on the active session.

Type a message and press enter to send it. Lines starting with / are commands;
type /help to list them. Ctrl-C cancels a pending reply.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if chatSession != "" {
				if err := a.requireSession(chatSession); err != nil {
					return err
				}
				a.ctrl.SelectSession(chatSession)
			}
			return runChat(cmd, a, cmd.InOrStdin())
		})
	},
}

// chatLoop holds the state of one interactive chat
type chatLoop struct {
	cmd      *cobra.Command
	app      *app
	in       *bufio.Scanner
	out      io.Writer
	renderer *messageRenderer
}

// runChat reads lines from in until EOF or /quit
func runChat(cmd *cobra.Command, a *app, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	l := &chatLoop{
		cmd:      cmd,
		app:      a,
		in:       scanner,
		out:      cmd.OutOrStdout(),
		renderer: newMessageRenderer(cmd.OutOrStdout(), false),
	}
	l.printSession()

	for {
		l.prompt()
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			quit, err := l.command(line)
			if err != nil {
				internal.PrintError(l.out, err.Error())
			}
			if quit {
				return nil
			}
			continue
		}
		if text, ok := l.suggestion(line); ok {
			line = text
		}
		l.send(line)
	}
	_, _ = fmt.Fprintln(l.out)
	return scanner.Err()
}

func (l *chatLoop) prompt() {
	title := "no session"
	if s, ok := l.app.ctrl.ActiveSession(); ok {
		title = s.Title
	}
	_, _ = fmt.Fprint(l.out, promptStyle.Render(title+" >")+" ")
}

// printSession shows the current log, or the welcome screen for an empty session
func (l *chatLoop) printSession() {
	v := l.app.ctrl.View()
	if v.Active == nil {
		_, _ = fmt.Fprintln(l.out, hintStyle.Render("No active session. Type /new to start one."))
		return
	}
	if v.ShowWelcome {
		_, _ = fmt.Fprintln(l.out, welcomeStyle.Render("How can I help you today?"))
		_, _ = fmt.Fprintln(l.out, hintStyle.Render("Try one of these:"))
		for i, s := range v.Suggestions {
			_, _ = fmt.Fprintf(l.out, "  %d. %s\n", i+1, s)
		}
		_, _ = fmt.Fprintln(l.out, hintStyle.Render("Type a number to send a suggestion, or /help for commands."))
		return
	}
	displaySessionHeader(l.out, *v.Active)
	for i, msg := range v.Active.Messages {
		displayMessage(l.out, l.renderer, i+1, msg, len(v.Active.Messages))
	}
}

// suggestion maps a bare suggestion number to its text. Numbers are only
// suggestions while the welcome screen is showing.
func (l *chatLoop) suggestion(line string) (string, bool) {
	v := l.app.ctrl.View()
	if !v.ShowWelcome {
		return "", false
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(v.Suggestions) {
		return "", false
	}
	return v.Suggestions[n-1], true
}

func (l *chatLoop) send(text string) {
	ctx, stop := signal.NotifyContext(l.cmd.Context(), os.Interrupt)
	defer stop()

	reply, err := sendAndWait(ctx, l.app.ctrl, l.cmd, text)
	if err != nil {
		internal.PrintError(l.out, err.Error())
		return
	}
	_, _ = fmt.Fprintln(l.out, messageHeader(reply.Role))
	_, _ = fmt.Fprintln(l.out, l.renderer.render(reply))
	_, _ = fmt.Fprintln(l.out)
}

// command runs a slash command and reports whether the loop should end
func (l *chatLoop) command(line string) (bool, error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)
	ctrl := l.app.ctrl

	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		return true, nil

	case "help", "?":
		_, _ = fmt.Fprintln(l.out, chatHelp)

	case "new":
		ctrl.NewChat()
		l.printSession()

	case "list", "ls":
		activeID, _ := ctrl.ActiveSessionID()
		displaySessions(l.out, ctrl.Sessions(), activeID, timeNow())

	case "select", "open":
		if arg == "" {
			return false, fmt.Errorf("usage: /select <id>")
		}
		if err := l.app.requireSession(arg); err != nil {
			return false, err
		}
		ctrl.SelectSession(arg)
		internal.PrintInfo(l.out, "Switched to "+arg)
		l.printSession()

	case "rename":
		s, ok := ctrl.ActiveSession()
		if !ok {
			return false, fmt.Errorf("no active session")
		}
		if arg == "" {
			return false, fmt.Errorf("usage: /rename <title>")
		}
		ctrl.RenameSession(s.ID, arg)

	case "delete", "rm":
		id := arg
		if id == "" {
			var ok bool
			if id, ok = ctrl.ActiveSessionID(); !ok {
				return false, fmt.Errorf("no active session")
			}
		}
		if err := l.app.requireSession(id); err != nil {
			return false, err
		}
		s, _ := ctrl.Session(id)
		if !confirm(l.in, l.out, fmt.Sprintf("Delete session %q?", s.Title)) {
			internal.PrintInfo(l.out, "Delete canceled")
			return false, nil
		}
		ctrl.DeleteSession(id)
		l.printSession()

	case "suggest":
		if !ctrl.View().ShowWelcome {
			return false, fmt.Errorf("suggestions are only offered on an empty session")
		}
		text, ok := l.suggestion(arg)
		if !ok {
			return false, fmt.Errorf("usage: /suggest <1-%d>", len(internal.Suggestions))
		}
		l.send(text)

	case "title":
		s, ok := ctrl.ActiveSession()
		if !ok {
			return false, fmt.Errorf("no active session")
		}
		title, err := ctrl.ApplyGeneratedTitle(l.contextOrBackground(), s.ID, newTitleSource(l.app.cfg))
		if err != nil {
			return false, err
		}
		internal.PrintSuccess(l.out, title)

	default:
		return false, fmt.Errorf("unknown command /%s (type /help)", name)
	}
	return false, nil
}

func (l *chatLoop) contextOrBackground() context.Context {
	if ctx := l.cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "Session to open (default: active session)")
}
