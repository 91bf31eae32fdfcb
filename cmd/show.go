package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/hookchat/internal"
	"github.com/spf13/cobra"
)

var (
	limit   int
	showRaw bool
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show messages for a session",
	Long:  `Display the messages of a chat session. Without an id the active session is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			session, err := a.sessionArg(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := newMessageRenderer(out, showRaw)
			displaySessionHeader(out, session)

			messagesToShow := session.Messages
			total := len(messagesToShow)
			// --limit keeps the most recent messages
			if limit > 0 && limit < total {
				messagesToShow = messagesToShow[total-limit:]
			}

			offset := total - len(messagesToShow)
			for i, msg := range messagesToShow {
				displayMessage(out, r, offset+i+1, msg, total)
			}

			if offset > 0 {
				_, _ = fmt.Fprintln(out, lipgloss.NewStyle().
					Foreground(lipgloss.Color("243")).
					Italic(true).
					Render(fmt.Sprintf("(%d earlier message(s) hidden)", offset)))
			}
			return nil
		})
	},
}

// messageRenderer renders model replies as markdown on terminals. Raw and
// non-terminal output keeps the content exactly as stored.
type messageRenderer struct {
	md     *glamour.TermRenderer
	styled bool
}

func newMessageRenderer(w io.Writer, raw bool) *messageRenderer {
	if raw || !internal.IsTerminal(w) {
		return &messageRenderer{}
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		internal.LogDebug("Markdown renderer unavailable: %v", err)
		return &messageRenderer{styled: true}
	}
	return &messageRenderer{md: md, styled: true}
}

// render returns the display form of msg content
func (r *messageRenderer) render(msg internal.Message) string {
	if !r.styled {
		return msg.Content
	}
	content := strings.TrimSpace(msg.Content)
	if r.md != nil && msg.Role == internal.RoleModel {
		if out, err := r.md.Render(content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return messageContentStyle.Render(wrapText(content, 80))
}

func displaySessionHeader(w io.Writer, session internal.Session) {
	header := sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", session.Title))
	_, _ = fmt.Fprintln(w, header)

	metaParts := []string{fmt.Sprintf("ID: %s", session.ID)}
	if created, ok := session.CreatedAt(); ok {
		metaParts = append(metaParts, fmt.Sprintf("Created: %s", created.Format("2006-01-02 15:04")))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", len(session.Messages)))

	_, _ = fmt.Fprintln(w, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	_, _ = fmt.Fprintln(w)
}

func displayMessage(w io.Writer, r *messageRenderer, index int, msg internal.Message, total int) {
	_, _ = fmt.Fprintln(w, messageHeader(msg.Role)+" "+timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total)))

	if strings.TrimSpace(msg.Content) == "" {
		_, _ = fmt.Fprintln(w, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	} else {
		_, _ = fmt.Fprintln(w, r.render(msg))
	}
	_, _ = fmt.Fprintln(w)
}

func messageHeader(role internal.Role) string {
	switch role {
	case internal.RoleUser:
		return userMessageStyle.Render("👤 You")
	case internal.RoleModel:
		return assistantMessageStyle.Render("🤖 Assistant")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Render(fmt.Sprintf("🔧 %s", role))
	}
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len([]rune(line)) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len([]rune(currentLine))+len([]rune(word))+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
				}
				currentLine = word
			} else if currentLine == "" {
				currentLine = word
			} else {
				currentLine += " " + word
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last n messages")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print model replies without markdown rendering")
}
