// Package launcher spawns the single direct child: session-leader setup,
// controlling-terminal hand-off, and exec of the target command.
//
// Rather than a raw fork(2)+exec(2) pair, this uses os/exec with a
// syscall.SysProcAttr the same way msantos-goreap's execv wires
// Pdeathsig: the Go runtime already does the signal-mask and
// disposition reset dance across fork+exec correctly for a
// multi-threaded process, which a hand-rolled syscall.ForkExec would
// have to reimplement unsafely.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// Result is what the launcher hands back to the supervisor loop once
// the child has started.
type Result struct {
	Cmd  *exec.Cmd
	Pid  int
	Pgid int
	// WasSessionLeaderAtStart is captured before the child is spawned;
	// it governs whether the supervisor must swallow one stray SIGHUP
	// and one stray SIGCONT caused by the foreground process group
	// change during hand-off.
	WasSessionLeaderAtStart bool
}

// ExecError is returned when the target command fails to start; Errno
// lets the caller compute the exit status (2 for ENOENT, 1 otherwise).
type ExecError struct {
	Path  string
	Errno syscall.Errno
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, capitalize(e.Errno.Error()))
}

// capitalize upper-cases the first rune. The C library's strerror(3)
// capitalizes its messages ("No such file or directory"); Go's
// syscall.Errno.Error() does not ("no such file or directory"), and the
// exec-failure message's wording is tested verbatim.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (e *ExecError) Unwrap() error { return e.Errno }

// isTerminal reports whether fd refers to a controlling terminal
// candidate, via the same ioctl the pack's x/sys/unix dependency already
// provides (rs/seamless pulls in golang.org/x/sys for socket options;
// here it is the termios ioctl instead).
func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// Launch starts argv[0] with argv as its own argument vector. useSetsid
// controls whether the child becomes a new session leader with the
// controlling terminal handed to it, or stays in the parent's process
// group.
func Launch(argv []string, useSetsid bool) (*Result, error) {
	wasLeader := wasSessionLeaderAtStart()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	attr := &syscall.SysProcAttr{}
	if useSetsid {
		attr.Setsid = true
		if isTerminal(os.Stdin.Fd()) {
			// Ctty is a fd number in the *child's* descriptor table; fd 0
			// there is always its stdin, which cmd.Stdin wires to ours.
			attr.Setctty = true
			attr.Ctty = 0
		}
	}
	cmd.SysProcAttr = attr

	if err := cmd.Start(); err != nil {
		return nil, toExecError(argv[0], err)
	}

	pid := cmd.Process.Pid
	pgid := pid
	if !useSetsid {
		pg, err := unix.Getpgid(os.Getpid())
		if err == nil {
			pgid = pg
		} else {
			pgid = pid
		}
	}

	return &Result{
		Cmd:                     cmd,
		Pid:                     pid,
		Pgid:                    pgid,
		WasSessionLeaderAtStart: wasLeader,
	}, nil
}

// wasSessionLeaderAtStart captures getpid() == getsid(0) before the
// child is spawned, per the tty hand-off quirk this governs.
func wasSessionLeaderAtStart() bool {
	sid, err := unix.Getsid(0)
	if err != nil {
		return false
	}
	return sid == os.Getpid()
}

func toExecError(path string, err error) error {
	var errno syscall.Errno
	switch e := err.(type) {
	case *os.PathError:
		if n, ok := e.Err.(syscall.Errno); ok {
			errno = n
		}
	case *exec.Error:
		if errors.Is(e.Err, exec.ErrNotFound) {
			errno = syscall.ENOENT
		}
	case syscall.Errno:
		errno = e
	}
	if errno == 0 {
		errno = syscall.EIO
	}
	return &ExecError{Path: path, Errno: errno}
}
