package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/iksnae/hookchat/internal"
	"github.com/iksnae/hookchat/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags returns every flag of c and its children to its default, since
// cobra keeps parsed values between Execute calls
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// useEnv replaces the environment seen by commands for the duration of the test
func useEnv(t *testing.T, env map[string]string) {
	t.Helper()
	prev := getenv
	getenv = func(key string) string { return env[key] }
	t.Cleanup(func() { getenv = prev })
}

// execute runs the root command with args and stdin, returning what it printed
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// testEnv is a data dir plus a webhook server for command tests
type testEnv struct {
	dir     string
	url     string
	replies atomic.Int32
}

// newTestEnv creates an isolated data dir and a webhook answering with status and body reply
func newTestEnv(t *testing.T, status int, reply string) *testEnv {
	t.Helper()
	env := &testEnv{dir: testutil.CreateTempDir(t)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.replies.Add(1)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	env.url = srv.URL
	useEnv(t, map[string]string{})
	return env
}

// run executes args against the env's storage and webhook
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *testEnv) runWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	full := append([]string{"--storage", e.dir, "--webhook-url", e.url}, args...)
	return execute(t, stdin, full...)
}

// state reads the persisted sessions and active id
func (e *testEnv) state(t *testing.T) ([]internal.Session, *string) {
	t.Helper()
	store, err := internal.OpenSQLiteStore(filepath.Join(e.dir, "hookchat.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	defer store.Close()

	adapter := internal.NewStoreAdapter(store)
	return internal.Get(adapter, internal.KeySessions, []internal.Session{}),
		internal.Get[*string](adapter, internal.KeyActiveSessionID, nil)
}
