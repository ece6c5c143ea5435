package agent

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
}

func TestServe_FetchKeyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := New(dir, time.Minute, discardLogger())

	key := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, a.Serve(context.Background(), key))
	defer a.Stop()

	var fetched []byte
	var ok bool
	require.Eventually(t, func() bool {
		fetched, ok = FetchKey(dir)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, key, fetched)
}

func TestFetchKey_NoAgentRunning(t *testing.T) {
	_, ok := FetchKey(t.TempDir())
	require.False(t, ok)
}

func TestServe_TwiceErrors(t *testing.T) {
	dir := t.TempDir()
	a := New(dir, time.Minute, discardLogger())

	require.NoError(t, a.Serve(context.Background(), []byte("key")))
	defer a.Stop()

	err := a.Serve(context.Background(), []byte("key"))
	require.Error(t, err)
}

func TestStop_RemovesSocket(t *testing.T) {
	dir := t.TempDir()
	a := New(dir, time.Minute, discardLogger())
	require.NoError(t, a.Serve(context.Background(), []byte("key")))

	require.NoError(t, a.Stop())

	_, ok := FetchKey(dir)
	require.False(t, ok)
}

func TestIdleTimeout_ShutsDownAgent(t *testing.T) {
	dir := t.TempDir()
	a := New(dir, 20*time.Millisecond, discardLogger())
	require.NoError(t, a.Serve(context.Background(), []byte("key")))

	select {
	case <-a.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("agent did not shut down after idle timeout")
	}
}

func TestNew_DefaultsIdleTimeout(t *testing.T) {
	a := New(t.TempDir(), 0, nil)
	require.Equal(t, DefaultIdleTimeout, a.idleTimeout)
	require.NotNil(t, a.logger)
}
