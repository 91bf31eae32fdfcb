package internal

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToChatHistory(t *testing.T) {
	messages := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleModel, Content: "hello"},
	}

	got := ToChatHistory(messages)
	want := []ChatHistory{
		{Role: RoleUser, Parts: []ChatHistoryPart{{Text: "hi"}}},
		{Role: RoleModel, Parts: []ChatHistoryPart{{Text: "hello"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToChatHistory() mismatch (-want +got):\n%s", diff)
	}
}

func TestToChatHistory_EmptyEncodesAsArray(t *testing.T) {
	data, err := json.Marshal(ToChatHistory(nil))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("ToChatHistory(nil) encodes as %s, want []", data)
	}
}

func TestChatHistoryWireShape(t *testing.T) {
	data, err := json.Marshal(ToChatHistory([]Message{{Role: RoleUser, Content: "hi"}}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `[{"role":"user","parts":[{"text":"hi"}]}]`
	if string(data) != want {
		t.Errorf("wire shape = %s, want %s", data, want)
	}
}
