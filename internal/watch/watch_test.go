package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunEmitsInitialAndChangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"v":1}`), 0o600))

	w := New(path, zerolog.Nop())
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	contents := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, offer(contents))
	}()

	assert.Equal(t, `{"v":1}`, receive(t, contents))

	// Writing may race with the watcher being registered; keep writing
	// until the change is seen.
	deadline := time.After(5 * time.Second)
	for seen := false; !seen; {
		require.NoError(t, os.WriteFile(path, []byte(`{"v":2}`), 0o600))
		select {
		case c := <-contents:
			seen = c == `{"v":2}`
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("change was not reported")
		}
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRunIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	w := New(path, zerolog.Nop())
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	contents := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, offer(contents))
	}()

	assert.Equal(t, `[]`, receive(t, contents))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o600))

	select {
	case c := <-contents:
		t.Fatalf("unexpected emit %q", c)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRunMissingFile(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing.json"), zerolog.Nop())
	err := w.Run(context.Background(), func(string) { t.Fatal("handler called") })
	assert.Error(t, err)
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no content received")
		return ""
	}
}

// offer never blocks the watcher on a full channel.
func offer(ch chan<- string) Handler {
	return func(content string) {
		select {
		case ch <- content:
		default:
		}
	}
}
