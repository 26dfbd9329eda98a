package borg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Mode selects what happens to a subprocess's standard streams.
type Mode int

const (
	// Capture collects stdout and stderr separately.
	Capture Mode = iota
	// CaptureCombined collects stderr into stdout.
	CaptureCombined
	// Interactive connects the subprocess to our own stdin/stdout/stderr.
	Interactive
)

func (m Mode) String() string {
	switch m {
	case Capture:
		return "capture"
	case CaptureCombined:
		return "combined"
	case Interactive:
		return "interactive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Command is one borg invocation, without the binary name.
type Command struct {
	Args []string
	Mode Mode
}

// Result is what came back from a finished invocation. Streams are empty
// in Interactive mode.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs borg commands.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExitError is returned when borg exits non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Output string // stderr, or the combined stream in CaptureCombined mode
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("borg %s exited with code %d", strings.Join(e.Args, " "), e.Code)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exec runs borg through os/exec.
type Exec struct {
	binary string
	log    *slog.Logger

	// Trace logs the full argv of every invocation.
	Trace bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecutor(binary string, log *slog.Logger) *Exec {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Exec{
		binary: binary,
		log:    log,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (e *Exec) Run(ctx context.Context, cmd Command) (Result, error) {
	// Check binary exists
	if _, err := exec.LookPath(e.binary); err != nil {
		return Result{}, fmt.Errorf("%s not found: %w", e.binary, err)
	}

	if e.Trace {
		e.log.Debug("exec", "binary", e.binary, "argv", cmd.Args, "mode", cmd.Mode)
	}

	c := exec.CommandContext(ctx, e.binary, cmd.Args...)

	var stdout, stderr bytes.Buffer
	switch cmd.Mode {
	case Interactive:
		c.Stdin = e.Stdin
		c.Stdout = e.Stdout
		c.Stderr = e.Stderr
	case CaptureCombined:
		c.Stdout = &stdout
		c.Stderr = &stdout
	default:
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	err := c.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if c.ProcessState != nil {
		res.ExitCode = c.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output := res.Stderr
			if cmd.Mode == CaptureCombined {
				output = res.Stdout
			}
			return res, &ExitError{Args: cmd.Args, Code: res.ExitCode, Output: output, Err: err}
		}
		return res, fmt.Errorf("failed to run %s: %w", e.binary, err)
	}

	return res, nil
}
