package cmd

import (
	"strings"
	"testing"

	"github.com/iksnae/hookchat/testutil"
)

func TestConfigCommand_Precedence(t *testing.T) {
	const file = `backend: webhook
webhook:
  url: http://file.example/hook
  schema: session
  timeout: 30s
`

	tests := []struct {
		name    string
		env     map[string]string
		flags   []string
		wantURL string
	}{
		{name: "file only", wantURL: "http://file.example/hook"},
		{
			name:    "env over file",
			env:     map[string]string{"HOOKCHAT_WEBHOOK_URL": "http://env.example/hook"},
			wantURL: "http://env.example/hook",
		},
		{
			name:    "flag over env",
			env:     map[string]string{"HOOKCHAT_WEBHOOK_URL": "http://env.example/hook"},
			flags:   []string{"--webhook-url", "http://flag.example/hook"},
			wantURL: "http://flag.example/hook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.CreateTempDir(t)
			testutil.WriteConfigFixture(t, dir, file)
			useEnv(t, tt.env)

			args := append([]string{"--storage", dir}, tt.flags...)
			out, err := execute(t, "", append(args, "config")...)
			if err != nil {
				t.Fatalf("config error = %v", err)
			}
			for _, want := range []string{"url: " + tt.wantURL, "schema: session", "timeout: 30s"} {
				if !strings.Contains(out, want) {
					t.Errorf("output should contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestConfigCommand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		flags []string
		want  string
	}{
		{name: "bad schema", file: "webhook:\n  schema: xml\n", want: "unsupported webhook schema"},
		{name: "bad backend flag", flags: []string{"--backend", "carrier-pigeon"}, want: "unsupported backend"},
		{name: "missing explicit config", flags: []string{"--config", "/nonexistent/config.yaml"}, want: "/nonexistent/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.CreateTempDir(t)
			if tt.file != "" {
				testutil.WriteConfigFixture(t, dir, tt.file)
			}
			useEnv(t, map[string]string{})

			args := append([]string{"--storage", dir}, tt.flags...)
			_, err := execute(t, "", append(args, "config")...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("config error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
