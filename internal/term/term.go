// Package term probes the execution environment for display capabilities.
package term

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Environment describes the display capabilities the trainer resolves its
// progress display against. It is a plain value so tests can inject any
// combination.
type Environment struct {
	// RichAvailable reports whether the enhanced display renderer can be
	// used: stdout is a terminal that supports styled output.
	RichAvailable bool

	// ConstrainedHost reports a hosted execution context whose terminal
	// emulation chokes on frequent redraws. The plain display defaults to
	// a much lower update frequency there.
	ConstrainedHost bool
}

// Detect probes the current process environment.
func Detect() Environment {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return DetectFrom(os.Getenv, tty)
}

// DetectFrom resolves capabilities from an explicit env lookup and TTY
// flag.
func DetectFrom(getenv func(string) string, tty bool) Environment {
	rich := tty && getenv("TERM") != "dumb" && getenv("NO_COLOR") == ""
	constrained := getenv("COLAB_GPU") != "" || getenv("QUARRY_CONSTRAINED_HOST") != ""
	return Environment{
		RichAvailable:   rich,
		ConstrainedHost: constrained,
	}
}
