//go:build unix

package queue

import "golang.org/x/sys/unix"

// processAlive reports whether pid identifies a live process, using
// the POSIX kill(pid, 0) liveness probe (spec §4.8 step 4).
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
