package queue

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubUploader struct {
	calls    []string
	fail     int // number of leading calls to fail
	fails    int
	lastBody url.Values
}

func (u *stubUploader) PostForm(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u.calls = append(u.calls, endpoint)
	u.lastBody = params
	if u.fails < u.fail {
		u.fails++
		return nil, context.DeadlineExceeded
	}
	return []byte("ok"), nil
}

func plainCipher() Cipher {
	return Cipher{
		Encrypt: func(plaintext string, key []byte) (string, error) { return plaintext, nil },
		Decrypt: func(data string, key []byte) (string, error) { return data, nil },
	}
}

func TestEnqueue_WritesEncryptedEntry(t *testing.T) {
	dir := t.TempDir()
	q := New(dir, plainCipher())

	err := q.Enqueue("show_website.php", url.Values{"a": {"1"}}, []byte("key"))
	require.NoError(t, err)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)

	var found bool
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		found = true
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		require.NoError(t, err)

		var entry Entry
		require.NoError(t, json.Unmarshal(data, &entry))
		require.Equal(t, "show_website.php", entry.Endpoint)
		require.Equal(t, "1", entry.Params.Get("a"))
	}
	require.True(t, found, "expected an entry file in %s", dir)
}

func TestDrain_SucceedsAndRemovesEntry(t *testing.T) {
	dir := t.TempDir()
	q := New(dir, plainCipher())
	require.NoError(t, q.Enqueue("upload.php", url.Values{"x": {"1"}}, nil))

	uploader := &stubUploader{}
	require.NoError(t, q.Drain(context.Background(), uploader, nil))

	require.Len(t, uploader.calls, 1)
	require.Equal(t, "upload.php", uploader.calls[0])

	remaining, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, f := range remaining {
		require.True(t, f.IsDir(), "queue file %s should have been consumed", f.Name())
	}
}

func TestDrain_UndecryptableEntryMovesToFailed(t *testing.T) {
	dir := t.TempDir()
	breaking := Cipher{
		Encrypt: func(plaintext string, key []byte) (string, error) { return plaintext, nil },
		Decrypt: func(data string, key []byte) (string, error) { return "", os.ErrInvalid },
	}
	q := New(dir, breaking)
	require.NoError(t, q.Enqueue("upload.php", nil, nil))

	uploader := &stubUploader{}
	require.NoError(t, q.Drain(context.Background(), uploader, nil))
	require.Empty(t, uploader.calls)

	failed, err := os.ReadDir(q.failedDir())
	require.NoError(t, err)
	require.Len(t, failed, 1)
}

func TestClaimNext_SecondDrainerCannotClaimSameEntry(t *testing.T) {
	dir := t.TempDir()
	q := New(dir, plainCipher())
	require.NoError(t, q.Enqueue("upload.php", nil, nil))

	first, ok, err := q.claimNext()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = q.claimNext()
	require.NoError(t, err)
	require.False(t, ok)

	q.dropEntry(first)
}

func TestCleanup_RemovesOnlyExpiredFailedEntries(t *testing.T) {
	dir := t.TempDir()
	q := New(dir, plainCipher())
	require.NoError(t, q.ensureDirs())

	freshPath := filepath.Join(q.failedDir(), "fresh")
	stalePath := filepath.Join(q.failedDir(), "stale")
	require.NoError(t, os.WriteFile(freshPath, []byte("x"), 0600))
	require.NoError(t, os.WriteFile(stalePath, []byte("x"), 0600))

	staleTime := q.clock().Add(-FailedMaxAge - 1)
	require.NoError(t, os.Chtimes(stalePath, staleTime, staleTime))

	require.NoError(t, q.Cleanup())

	_, err := os.Stat(freshPath)
	require.NoError(t, err)
	_, err = os.Stat(stalePath)
	require.True(t, os.IsNotExist(err))
}

func TestIsRunning_FalseWhenNoPidFile(t *testing.T) {
	q := New(t.TempDir(), plainCipher())
	require.False(t, q.IsRunning())
}

func TestEnsureRunning_DrainsThenStops(t *testing.T) {
	dir := t.TempDir()
	q := New(dir, plainCipher())
	require.NoError(t, q.Enqueue("upload.php", nil, nil))

	uploader := &stubUploader{}
	require.NoError(t, q.EnsureRunning(context.Background(), uploader, nil))
	defer q.Stop()

	require.Eventually(t, func() bool {
		remaining, err := os.ReadDir(dir)
		if err != nil {
			return false
		}
		for _, f := range remaining {
			if !f.IsDir() {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}
