// Package config holds the immutable value computed once at startup
// from argv and the environment, and the argv scanner that produces it.
//
// Parsing the option table is kept intentionally separate from any
// general-purpose flag library: the command and every argument after it
// belong to the child process unparsed, which rules out libraries that
// want to own the whole argv
// (see DESIGN.md).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/pid1/internal/signals"
)

// Config is the parsed, read-only configuration the rest of the
// supervisor consumes.
type Config struct {
	Argv      []string
	UseSetsid bool
	Debug     bool
	Rewrites  []signals.Rewrite
	Help      bool
	PrintVers bool
}

const rewriteUsage = `Usage: -r option takes <signum>:<signum>, where <signum> is between 1 and 31.
This option can be specified multiple times.
Use --help for full usage.
`

const usageBanner = `Usage: dumb-init [option] program [args]

dumb-init is a simple process supervisor that forwards signals to its
child and reaps orphaned descendants. It is designed to run as pid 1
inside a container.

Options:
  -c, --single-child    Run in single-child mode: don't use setsid(2),
                        forward signals directly to the child.
  -r, --rewrite s:r     Rewrite incoming signal s to r before forwarding
                        (r=0 to ignore). May be repeated.
  -v, --verbose         Print debugging information to stderr.
  -h, --help            Print this help message and exit.
  -V, --version         Print the version and exit.

Try dumb-init --help for full usage.
`

// noArgsUsage is the exact message printed when argv has no command at
// all: shorter than the full --help banner.
const noArgsUsage = "Usage: dumb-init [option] program [args]\n" +
	"Try dumb-init --help for full usage.\n"

// ErrUsage carries an already-formatted usage message and the exit
// status the caller should use.
type ErrUsage struct {
	Message  string
	ExitCode int
}

func (e *ErrUsage) Error() string { return e.Message }

// Parse scans argv (os.Args[1:]) for the recognized option table and
// returns a Config for whatever remains as the child command. It does
// not read the environment; ApplyEnv does that separately so callers
// can test option parsing and environment overlay independently.
func Parse(argv []string) (*Config, error) {
	cfg := &Config{UseSetsid: true}

	i := 0
	for ; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--":
			i++
			goto done
		case arg == "-c" || arg == "--single-child":
			cfg.UseSetsid = false
		case arg == "-v" || arg == "--verbose":
			cfg.Debug = true
		case arg == "-h" || arg == "--help":
			cfg.Help = true
			return cfg, nil
		case arg == "-V" || arg == "--version":
			cfg.PrintVers = true
			return cfg, nil
		case arg == "-r" || arg == "--rewrite":
			if i+1 >= len(argv) {
				return nil, &ErrUsage{Message: rewriteUsage, ExitCode: 1}
			}
			i++
			rw, err := parseRewrite(argv[i])
			if err != nil {
				return nil, &ErrUsage{Message: rewriteUsage, ExitCode: 1}
			}
			cfg.Rewrites = append(cfg.Rewrites, rw)
		case strings.HasPrefix(arg, "--rewrite="):
			rw, err := parseRewrite(strings.TrimPrefix(arg, "--rewrite="))
			if err != nil {
				return nil, &ErrUsage{Message: rewriteUsage, ExitCode: 1}
			}
			cfg.Rewrites = append(cfg.Rewrites, rw)
		case strings.HasPrefix(arg, "-") && arg != "-":
			return nil, &ErrUsage{Message: fmt.Sprintf("Unknown option %q.\nUse --help for full usage.\n", arg), ExitCode: 1}
		default:
			goto done
		}
	}
done:
	cfg.Argv = argv[i:]
	if len(cfg.Argv) == 0 {
		return nil, &ErrUsage{Message: noArgsUsage, ExitCode: 1}
	}
	return cfg, nil
}

// HelpText returns the full usage banner printed for -h/--help.
func HelpText() string { return usageBanner }

// parseRewrite parses "s:r" into a signals.Rewrite, validating the
// decimal-and-colon shape: exactly one colon, both sides decimal, the
// source in [1,31] and the target either 0 or in [1,31]. Malformed
// strings like "herp", "15::12", "15:derp" or "15" (no colon) are all
// rejected here.
func parseRewrite(s string) (signals.Rewrite, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return signals.Rewrite{}, fmt.Errorf("malformed rewrite %q", s)
	}
	from, err := strconv.Atoi(parts[0])
	if err != nil {
		return signals.Rewrite{}, fmt.Errorf("malformed rewrite %q: %w", s, err)
	}
	to, err := strconv.Atoi(parts[1])
	if err != nil {
		return signals.Rewrite{}, fmt.Errorf("malformed rewrite %q: %w", s, err)
	}
	if from < signals.MinSignal || from > signals.MaxSignal {
		return signals.Rewrite{}, fmt.Errorf("rewrite source %d out of range", from)
	}
	if to != 0 && (to < signals.MinSignal || to > signals.MaxSignal) {
		return signals.Rewrite{}, fmt.Errorf("rewrite target %d out of range", to)
	}
	return signals.Rewrite{From: syscall.Signal(from), To: syscall.Signal(to)}, nil
}

// ApplyEnv overlays DUMB_INIT_DEBUG and DUMB_INIT_SETSID onto a Config
// already produced by Parse. Flags already set by Parse are not
// clobbered back to their defaults; the environment only ever pushes
// debug on or setsid off.
func (c *Config) ApplyEnv(env func(string) string) {
	if v := env("DUMB_INIT_DEBUG"); v != "" && v != "0" {
		c.Debug = true
	}
	if env("DUMB_INIT_SETSID") == "0" {
		c.UseSetsid = false
	}
}

// Environ is the production env accessor, passed to ApplyEnv.
func Environ(key string) string { return os.Getenv(key) }
