package cmd

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/hookchat/internal"
)

func TestChatCommand(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"text":"Tokyo is lovely in spring."}`)

	input := strings.Join([]string{
		"Plan a 3-day trip to Tokyo",
		"/rename Tokyo",
		"/new",
		"/list",
		"/quit",
		"never sent",
	}, "\n") + "\n"

	out, err := env.runWithInput(t, input, "chat")
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}

	for _, want := range []string{
		"How can I help you today?",
		"Tokyo is lovely in spring.",
		"Found 2 session(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}

	if env.replies.Load() != 1 {
		t.Errorf("webhook called %d times, want 1", env.replies.Load())
	}

	sessions, active := env.state(t)
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	if active == nil || *active != sessions[0].ID {
		t.Errorf("active = %v, want the new session", active)
	}
	if sessions[1].Title != "Tokyo" || len(sessions[1].Messages) != 2 {
		t.Errorf("first chat = %+v, want renamed with 2 messages", sessions[1])
	}
}

func TestChatCommand_SlashCommandErrors(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"text":"unused"}`)

	input := "/bogus\n/select\n/select nope\n/rename\n/suggest 9\n"
	out, err := env.runWithInput(t, input, "chat")
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}

	for _, want := range []string{
		"unknown command /bogus",
		"usage: /select <id>",
		"session not found: nope",
		"usage: /rename <title>",
		"usage: /suggest <1-4>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
	if env.replies.Load() != 0 {
		t.Errorf("slash commands reached the webhook %d times", env.replies.Load())
	}
}

func TestChatCommand_DeleteLastSession(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"text":"unused"}`)

	out, err := env.runWithInput(t, "/delete\ny\nhello\n", "chat")
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}
	if !strings.Contains(out, "No active session") {
		t.Errorf("output should report no active session, got:\n%s", out)
	}
	if !strings.Contains(out, "message not sent") {
		t.Errorf("send without a session should be refused, got:\n%s", out)
	}
	if env.replies.Load() != 0 {
		t.Errorf("webhook called %d times, want 0", env.replies.Load())
	}
}

func TestChatCommand_Suggestions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "bare number sends the suggestion",
			input: "3\n",
			want:  []string{internal.Suggestions[2]},
		},
		{
			name:  "slash command sends the suggestion",
			input: "/suggest 1\n",
			want:  []string{internal.Suggestions[0]},
		},
		{
			name:  "numbers are plain text once the session has messages",
			input: "2\n2\n",
			want:  []string{internal.Suggestions[1], "2"},
		},
		{
			name:  "out of range number is plain text",
			input: "7\n",
			want:  []string{"7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, http.StatusOK, `{"text":"ok"}`)

			out, err := env.runWithInput(t, tt.input, "chat")
			if err != nil {
				t.Fatalf("chat error = %v", err)
			}
			if !strings.Contains(out, "1. "+internal.Suggestions[0]) {
				t.Errorf("welcome screen should number the suggestions, got:\n%s", out)
			}

			sessions, _ := env.state(t)
			var got []string
			for _, m := range sessions[0].Messages {
				if m.Role == internal.RoleUser {
					got = append(got, m.Content)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("user messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChatCommand_SuggestOnBusySession(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"text":"ok"}`)

	out, err := env.runWithInput(t, "hello\n/suggest 1\n", "chat")
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}
	if !strings.Contains(out, "suggestions are only offered on an empty session") {
		t.Errorf("output should refuse the suggestion, got:\n%s", out)
	}
	if env.replies.Load() != 1 {
		t.Errorf("webhook called %d times, want 1", env.replies.Load())
	}
}

func TestChatCommand_DeleteNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"text":"unused"}`)

	out, err := env.runWithInput(t, "/delete\nn\n", "chat")
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}
	if !strings.Contains(out, `Delete session "New Chat"? [y/N]`) {
		t.Errorf("output should ask for confirmation, got:\n%s", out)
	}
	if !strings.Contains(out, "Delete canceled") {
		t.Errorf("output should report the canceled delete, got:\n%s", out)
	}
	if sessions, _ := env.state(t); len(sessions) != 1 {
		t.Errorf("sessions = %d, want the session kept", len(sessions))
	}
}
