// Package agent implements the local key-cache daemon (SPEC_FULL.md
// §4.9): a UNIX-domain-socket server holding the 32-byte vault key in
// memory so repeated CLI invocations can skip re-deriving it from the
// master password, subject to a same-user peer check and an idle
// timeout.
package agent

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultIdleTimeout is how long the agent waits without a request
// before it deletes its socket and exits, per spec §5.
const DefaultIdleTimeout = time.Hour

const socketFileName = "agent.sock"

// request/response are newline-terminated single-line text protocol
// messages, kept deliberately simple since the agent's only job is to
// hand back the 32-byte key (hex-encoded after "OK") over a trusted
// local socket. SET is answered with OK and leaves the held key
// unchanged; the key is only ever set by Serve.
const (
	cmdGet = "GET"
	cmdSet = "SET"

	respOK  = "OK"
	respErr = "ERR"
)

// Agent holds a vault key in memory and serves it to authenticated
// same-user peers over a UNIX socket, per spec §5's "separate
// long-lived process" model — here, a goroutine-managed listener
// rather than a forked daemon, matching design note §9's "explicit
// tasks" redesign.
type Agent struct {
	dir         string
	idleTimeout time.Duration
	logger      *slog.Logger

	mu       sync.Mutex
	key      []byte
	listener net.Listener
	cancel   context.CancelFunc
	stopped  chan struct{}
}

// New builds an Agent rooted at dir (the user's config directory).
// idleTimeout of zero uses DefaultIdleTimeout.
func New(dir string, idleTimeout time.Duration, logger *slog.Logger) *Agent {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{dir: dir, idleTimeout: idleTimeout, logger: logger}
}

func (a *Agent) socketPath() string {
	return filepath.Join(a.dir, socketFileName)
}

// Serve stores key and starts accepting connections, returning once
// the listener is bound (accept loop runs in a goroutine). Stop (or
// the idle timeout) shuts it down.
func (a *Agent) Serve(ctx context.Context, key []byte) error {
	a.mu.Lock()
	if a.listener != nil {
		a.mu.Unlock()
		return fmt.Errorf("vault/agent: already serving")
	}

	path := a.socketPath()
	_ = os.Remove(path)

	listener, err := net.Listen("unix", path)
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("vault/agent: listen: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		listener.Close()
		a.mu.Unlock()
		return fmt.Errorf("vault/agent: chmod socket: %w", err)
	}

	stored := make([]byte, len(key))
	copy(stored, key)

	runCtx, cancel := context.WithCancel(ctx)
	a.key = stored
	a.listener = listener
	a.cancel = cancel
	a.stopped = make(chan struct{})
	a.mu.Unlock()

	go a.acceptLoop(runCtx, listener)
	return nil
}

func (a *Agent) acceptLoop(ctx context.Context, listener net.Listener) {
	defer close(a.stopped)
	defer a.cleanup()

	idle := time.NewTimer(a.idleTimeout)
	defer idle.Stop()

	connCh := make(chan net.Conn)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			select {
			case connCh <- conn:
			case <-ctx.Done():
				conn.Close()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-idle.C:
			a.logger.Info("agent idle timeout, exiting")
			return
		case conn := <-connCh:
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(a.idleTimeout)
			a.handleConn(conn)
		}
	}
}

func (a *Agent) cleanup() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		a.listener.Close()
	}
	zero(a.key)
	a.key = nil
	_ = os.Remove(a.socketPath())
}

// handleConn verifies the peer is the same local user via SO_PEERCRED
// before answering; a mismatched peer is disconnected silently, per
// spec §5's shared-resource policy.
func (a *Agent) handleConn(conn net.Conn) {
	defer conn.Close()

	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return
	}
	if !a.verifyPeer(unixConn) {
		a.logger.Warn("agent rejected connection from non-matching peer")
		return
	}

	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}
	line := string(buf[:n])

	switch {
	case len(line) >= len(cmdGet) && line[:len(cmdGet)] == cmdGet:
		a.mu.Lock()
		key := a.key
		a.mu.Unlock()
		if key == nil {
			fmt.Fprintf(conn, "%s\n", respErr)
			return
		}
		fmt.Fprintf(conn, "%s %s\n", respOK, hex.EncodeToString(key))

	case len(line) >= len(cmdSet) && line[:len(cmdSet)] == cmdSet:
		fmt.Fprintf(conn, "%s\n", respOK)

	default:
		fmt.Fprintf(conn, "%s\n", respErr)
	}
}

func (a *Agent) verifyPeer(conn *net.UnixConn) bool {
	raw, err := conn.SyscallConn()
	if err != nil {
		return false
	}

	var cred *unix.Ucred
	var credErr error
	err = raw.Control(func(fd uintptr) {
		cred, credErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	if err != nil || credErr != nil || cred == nil {
		return false
	}

	return int(cred.Uid) == os.Getuid()
}

// Stop shuts down the accept loop and waits for it to exit.
func (a *Agent) Stop() error {
	a.mu.Lock()
	cancel := a.cancel
	stopped := a.stopped
	a.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	if stopped != nil {
		<-stopped
	}
	return nil
}

// FetchKey dials a running agent's socket and requests the cached
// vault key, returning (nil, false) if no agent is running or the
// peer check fails server-side.
func FetchKey(dir string) ([]byte, bool) {
	path := filepath.Join(dir, socketFileName)
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, false
	}
	defer conn.Close()

	if _, err := fmt.Fprintf(conn, "%s\n", cmdGet); err != nil {
		return nil, false
	}

	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, false
	}
	line := string(buf[:n])

	var status, hexKey string
	if _, err := fmt.Sscanf(line, "%s %s", &status, &hexKey); err != nil || status != respOK {
		return nil, false
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, false
	}
	return key, true
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
