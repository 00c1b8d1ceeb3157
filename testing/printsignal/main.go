// Command printsignal is a test fixture: it prints every signal it
// receives, one number per line, flushed immediately. It never exits on
// its own; a test harness sends it SIGKILL when done.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	sigCh := make(chan os.Signal, 64)
	catchable := make([]os.Signal, 0, 31)
	for n := 1; n <= 31; n++ {
		s := syscall.Signal(n)
		if s == syscall.SIGKILL || s == syscall.SIGSTOP || s == syscall.SIGCHLD {
			continue
		}
		catchable = append(catchable, s)
	}
	signal.Notify(sigCh, catchable...)

	out := bufio.NewWriter(os.Stdout)
	fmt.Fprintf(out, "ready (pid: %d)\n", os.Getpid())
	out.Flush()

	for sig := range sigCh {
		ss, ok := sig.(syscall.Signal)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%d\n", int(ss))
		out.Flush()
	}
}
