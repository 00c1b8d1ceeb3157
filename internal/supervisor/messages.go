package supervisor

import (
	"fmt"
	"syscall"
)

// The first four trace lines below have fixed wording (the emitter adds
// the "[dumb-init] " prefix); traceOrphansReaped is additive diagnostic
// output.

func traceReceived(s syscall.Signal) string {
	return fmt.Sprintf("Received signal %d", int(s))
}

func traceForwarded(s syscall.Signal) string {
	return fmt.Sprintf("Forwarded signal %d to children", int(s))
}

func traceIgnoringTTYHandoff(s syscall.Signal) string {
	return fmt.Sprintf("Ignoring tty hand-off signal %d", int(s))
}

func traceGoodbye(status int) string {
	return fmt.Sprintf("Child exited with status %d. Goodbye.", status)
}

func traceOrphansReaped(n int) string {
	return fmt.Sprintf("Reaped %d orphaned descendant(s)", n)
}
