package compare

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// Launcher opens an external viewer on two snapshot files.
type Launcher interface {
	Launch(ctx context.Context, left, right string) error
}

// Placeholders substituted in ExecLauncher.Args.
const (
	PlaceholderLeft  = "{left}"
	PlaceholderRight = "{right}"
)

// ExecLauncher runs a diff tool as a child process. The tool's exit status
// and output are not inspected; only a failure to start is an error, since
// diff tools commonly exit non-zero when the inputs differ.
type ExecLauncher struct {
	Tool string
	Args []string

	// Wait blocks until the tool exits. Without it the tool is started and
	// released, which suits GUI viewers.
	Wait bool

	// Stdin, Stdout and Stderr are attached to a waited-for tool so that
	// terminal viewers share the operator's console.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// Launch implements Launcher.
func (l *ExecLauncher) Launch(ctx context.Context, left, right string) error {
	if l.Tool == "" {
		return fmt.Errorf("no diff tool configured")
	}
	args := l.Command(left, right)

	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("launching diff tool", "tool", l.Tool, "args", args, "wait", l.Wait)

	cmd := exec.CommandContext(ctx, l.Tool, args...)
	if l.Wait {
		cmd.Stdin = l.Stdin
		cmd.Stdout = l.Stdout
		cmd.Stderr = l.Stderr
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.Tool, err)
	}
	if !l.Wait {
		return cmd.Process.Release()
	}
	if err := cmd.Wait(); err != nil {
		logger.Debug("diff tool exited", "tool", l.Tool, "error", err)
	}
	return nil
}

// Command returns the arguments passed to the tool for a pair of files.
// Placeholders are substituted; without any, both paths are appended.
func (l *ExecLauncher) Command(left, right string) []string {
	out := make([]string, 0, len(l.Args)+2)
	substituted := false
	for _, a := range l.Args {
		if strings.Contains(a, PlaceholderLeft) || strings.Contains(a, PlaceholderRight) {
			substituted = true
		}
		a = strings.ReplaceAll(a, PlaceholderLeft, left)
		a = strings.ReplaceAll(a, PlaceholderRight, right)
		out = append(out, a)
	}
	if !substituted {
		out = append(out, left, right)
	}
	return out
}
