package supervisor

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// reapResult summarizes one non-blocking reap sweep.
type reapResult struct {
	directChildExited bool
	directChildStatus int
	orphansReaped     int
}

// reapAll drains every waitable descendant via a non-blocking Wait4
// loop, the same shape msantos-goreap's reap.go uses against
// syscall.Wait4(-1, ...): keep calling until WNOHANG reports nothing
// left, recording the direct child's status and silently
// acknowledging everyone else (they are orphans re-parented to this
// process by the kernel).
func reapAll(directChildPid int) reapResult {
	var res reapResult
	var ws unix.WaitStatus

	for {
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
		switch {
		case errors.Is(err, syscall.EINTR):
			continue
		case errors.Is(err, syscall.ECHILD):
			return res
		case err != nil:
			return res
		}

		if pid <= 0 {
			// 0: no waitable child changed state right now.
			return res
		}

		if pid == directChildPid {
			res.directChildExited = true
			res.directChildStatus = exitStatusFor(ws)
			continue
		}

		res.orphansReaped++
	}
}

// exitStatusFor implements the shell-convention mapping: normal exit
// n -> n; terminated by signal k -> 128+k.
func exitStatusFor(ws unix.WaitStatus) int {
	if ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ws.ExitStatus()
}

// drainRemaining blocks (no WNOHANG) until every remaining waitable
// descendant has exited, used after the group-wide SIGTERM on direct
// child exit so the supervisor does not return while session members
// are still dying.
func drainRemaining() {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(-1, &ws, 0, nil)
		switch {
		case errors.Is(err, syscall.EINTR):
			continue
		case errors.Is(err, syscall.ECHILD):
			return
		case err != nil:
			return
		}
	}
}
