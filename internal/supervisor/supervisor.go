// Package supervisor implements the single-threaded event loop: it
// blocks waiting for signals, translates and forwards or suspends on
// each one, reaps exited descendants, and computes the final exit
// status once the direct child has terminated.
package supervisor

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/rs/pid1/internal/launcher"
	"github.com/rs/pid1/internal/signals"
	"github.com/rs/pid1/internal/trace"
)

// Supervisor owns the mutable state described by the data model: the
// child's pid/pgid, whether it was a session leader at start (and
// therefore which tty hand-off signals remain to be swallowed), and
// the translation table built once at startup.
type Supervisor struct {
	table     *signals.Table
	emit      trace.Emitter
	useSetsid bool

	childPid  int
	childPgid int

	ttyHandoffRemaining map[syscall.Signal]bool
}

// New builds a Supervisor around an already-launched child.
func New(table *signals.Table, emit trace.Emitter, useSetsid bool, launched *launcher.Result) *Supervisor {
	s := &Supervisor{
		table:     table,
		emit:      emit,
		useSetsid: useSetsid,
		childPid:  launched.Pid,
		childPgid: launched.Pgid,
	}
	if launched.WasSessionLeaderAtStart {
		s.ttyHandoffRemaining = map[syscall.Signal]bool{
			syscall.SIGHUP:  true,
			syscall.SIGCONT: true,
		}
	}
	return s
}

// catchableSignals is every signal number the translation table knows
// about; SIGKILL and SIGSTOP are included for completeness but the
// kernel never delivers them to a handler, so they are never actually
// observed here.
func catchableSignals() []os.Signal {
	sigs := make([]os.Signal, 0, signals.MaxSignal)
	for n := signals.MinSignal; n <= signals.MaxSignal; n++ {
		sigs = append(sigs, syscall.Signal(n))
	}
	return sigs
}

// Run installs the signal channel and blocks until the direct child
// has exited and every reapable descendant has been drained, returning
// the computed exit status.
//
// Signals are only ever observed at one synchronization point: the
// channel receive at the top of this loop. Everything else in this
// package is straight-line code reacting to one signal at a time, the
// same discipline rs/seamless's launcher goroutine follows around its
// signal.Notify channel.
func (s *Supervisor) Run() int {
	sigCh := make(chan os.Signal, 64)
	signal.Notify(sigCh, catchableSignals()...)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		ss, ok := sig.(syscall.Signal)
		if !ok {
			continue
		}

		s.emit.Emit(trace.Event{Message: traceReceived(ss)})

		if ss == syscall.SIGCHLD {
			if status, exited := s.handleReap(); exited {
				return status
			}
			continue
		}

		if s.ttyHandoffRemaining[ss] {
			delete(s.ttyHandoffRemaining, ss)
			s.emit.Emit(trace.Event{Message: traceIgnoringTTYHandoff(ss)})
			continue
		}

		s.dispatch(ss)
	}

	// sigCh is never closed in practice; reaching here would mean the
	// channel was closed out from under us.
	return 1
}

func (s *Supervisor) dispatch(ss syscall.Signal) {
	action := s.table.Lookup(ss)
	switch action.Kind {
	case signals.KindIgnore:
		return
	case signals.KindForward:
		s.forward(action.To)
	case signals.KindForwardAndSuspendSelf:
		s.forward(action.To)
		_ = syscall.Kill(os.Getpid(), syscall.SIGSTOP)
	}
}

// forward sends sig to the forwarding target: the negated process
// group in setsid mode, the direct child pid otherwise. A failed kill
// is silently ignored -- the child may already have exited.
func (s *Supervisor) forward(sig syscall.Signal) {
	target := s.childPid
	if s.useSetsid {
		target = -s.childPgid
	}
	if err := syscall.Kill(target, sig); err != nil {
		return
	}
	s.emit.Emit(trace.Event{Message: traceForwarded(sig)})
}

// handleReap runs one reap sweep and, if the direct child exited,
// performs the termination sequence: in setsid mode a group-wide
// SIGTERM and a blocking drain, then a goodbye trace, and the computed
// exit status.
func (s *Supervisor) handleReap() (status int, exited bool) {
	res := reapAll(s.childPid)
	if res.orphansReaped > 0 {
		s.emit.Emit(trace.Event{Message: traceOrphansReaped(res.orphansReaped)})
	}
	if !res.directChildExited {
		return 0, false
	}

	if s.useSetsid {
		_ = unix.Kill(-s.childPgid, syscall.SIGTERM)
		drainRemaining()
	}

	s.emit.Emit(trace.Event{Message: traceGoodbye(res.directChildStatus)})
	return res.directChildStatus, true
}
