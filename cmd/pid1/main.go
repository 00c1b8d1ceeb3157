// Command pid1 is a minimal process-one supervisor for containers: it
// spawns one direct child, forwards signals to it (or its process
// group), reaps every orphan the kernel reparents to it, and exits with
// a status that reflects the child's termination.
package main

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/rs/pid1/internal/config"
	"github.com/rs/pid1/internal/launcher"
	"github.com/rs/pid1/internal/signals"
	"github.com/rs/pid1/internal/supervisor"
	"github.com/rs/pid1/internal/trace"
)

// version is overwritten at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], config.Environ, os.Stderr))
}

// run contains everything testable about the entrypoint: argument and
// environment handling, error formatting, and wiring the translation
// table, launcher and supervisor together. main just supplies the real
// os.Args/os.Stderr and calls os.Exit with the result.
func run(argv []string, env func(string) string, stderr io.Writer) int {
	cfg, err := config.Parse(argv)
	if err != nil {
		if usageErr, ok := err.(*config.ErrUsage); ok {
			fmt.Fprint(stderr, usageErr.Message)
			return usageErr.ExitCode
		}
		fmt.Fprintln(stderr, err)
		return 1
	}

	if cfg.Help {
		fmt.Fprint(stderr, config.HelpText())
		return 0
	}
	if cfg.PrintVers {
		fmt.Fprintf(stderr, "dumb-init v%s\n", version)
		return 0
	}

	cfg.ApplyEnv(env)

	table, err := signals.Build(cfg.UseSetsid, cfg.Rewrites)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	emit := trace.NewEmitter(cfg.Debug)

	launched, err := launcher.Launch(cfg.Argv, cfg.UseSetsid)
	if err != nil {
		if execErr, ok := err.(*launcher.ExecError); ok {
			fmt.Fprintf(stderr, "[dumb-init] %s\n", execErr.Error())
			if execErr.Errno == syscall.ENOENT {
				return 2
			}
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	if cfg.UseSetsid {
		emit.Emit(trace.Event{Message: "setsid complete"})
	}

	sup := supervisor.New(table, emit, cfg.UseSetsid, launched)
	return sup.Run()
}
