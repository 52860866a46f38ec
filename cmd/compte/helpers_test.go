package main

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/brojonat/compte/client/clienttest"
)

// syncBuffer is a bytes.Buffer safe for a command writing while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setupEnv points the CLI at srv with a fresh storage file.
func setupEnv(t *testing.T, srv *clienttest.Server) {
	t.Helper()
	t.Setenv("COMPTE_SERVER_URL", srv.URL)
	t.Setenv("COMPTE_STORAGE_PATH", filepath.Join(t.TempDir(), "storage.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("NATS_URL", "")
	t.Setenv("METRICS_ADDR", "")
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, args ...string) runResult {
	t.Helper()
	return runCLIContext(context.Background(), t, &syncBuffer{}, args...)
}

func runCLIContext(ctx context.Context, t *testing.T, stdout *syncBuffer, args ...string) runResult {
	t.Helper()
	stderr := &syncBuffer{}
	app := newApp()
	app.Writer = stdout
	app.ErrWriter = stderr
	err := app.RunContext(ctx, append([]string{"compte"}, args...))
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// loggedIn starts a fake API with alice logged in through the CLI.
func loggedIn(t *testing.T) *clienttest.Server {
	t.Helper()
	srv := clienttest.NewServer(t)
	srv.AddUser("alice@example.com", "secret")
	setupEnv(t, srv)

	res := runCLI(t, "login", "--password", "secret", "alice@example.com")
	if res.err != nil {
		t.Fatalf("login failed: %v", res.err)
	}
	return srv
}
