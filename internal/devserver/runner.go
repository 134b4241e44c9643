package devserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"time"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

// waitDelay bounds how long Wait keeps reading output after the shell has
// exited or been killed.
//
// The dev server is usually a grandchild: sh starts npm, npm starts node.
// Killing sh on context cancellation does not kill node, which still holds
// the write end of the stderr pipe, so without a bound Wait would block
// until node exits on its own. After waitDelay the pipe is closed and Wait
// returns exec.ErrWaitDelay with whatever stderr was collected so far.
const waitDelay = 2 * time.Second

// Result is the outcome of one dev server run.
type Result struct {
	// Command is the command line that was executed.
	Command Command

	// Stderr is everything the process wrote to standard error.
	// Empty when the process produced no error output.
	Stderr string

	// ExitCode is the process exit status, -1 if it was killed by a signal.
	// Informational only.
	ExitCode int
}

// Runner executes a dev server command and captures its standard error.
type Runner interface {
	Run(ctx context.Context, dir string, cmd Command) (Result, error)
}

// RunnerOptions configures a ShellRunner. The zero value discards stdout,
// does not echo stderr and uses the shell of the current platform.
type RunnerOptions struct {
	// Stdout receives the process's standard output. Defaults to io.Discard.
	Stdout io.Writer

	// Echo, if set, receives a live copy of standard error as it arrives.
	Echo io.Writer

	// InterceptInterrupt keeps this process alive on Ctrl-C while the dev
	// server runs. The terminal still delivers the signal to the child, so
	// the child exits and its stderr can be analyzed.
	InterceptInterrupt bool

	// Shell overrides the interpreter and its command flag,
	// e.g. []string{"bash", "-c"}.
	Shell []string
}

// ShellRunner runs commands through the host shell.
type ShellRunner struct {
	stdout             io.Writer
	echo               io.Writer
	interceptInterrupt bool
	shell              []string
}

// NewShellRunner creates a ShellRunner. Passing nil uses default options.
func NewShellRunner(opt *RunnerOptions) *ShellRunner {
	if opt == nil {
		opt = &RunnerOptions{}
	}

	r := &ShellRunner{
		stdout:             opt.Stdout,
		echo:               opt.Echo,
		interceptInterrupt: opt.InterceptInterrupt,
		shell:              opt.Shell,
	}

	if r.stdout == nil {
		r.stdout = io.Discard
	}

	if len(r.shell) == 0 {
		r.shell = defaultShell(runtime.GOOS)
	}

	return r
}

// Run starts cmd in dir and blocks until it exits or ctx is cancelled.
//
// A non-zero exit status is not an error. If the process cannot be
// started, Run returns a CLIError with ExitSpawnFailed wrapping
// model.ErrSpawnFailed.
func (r *ShellRunner) Run(ctx context.Context, dir string, cmd Command) (Result, error) {
	args := append(append([]string{}, r.shell[1:]...), cmd.String())

	// #nosec G204 -- cmd comes from the fixed ResolveCommand table
	c := exec.CommandContext(ctx, r.shell[0], args...)
	c.Dir = dir
	c.WaitDelay = waitDelay

	var stderr bytes.Buffer
	c.Stdout = r.stdout
	c.Stderr = &stderr
	if r.echo != nil {
		c.Stderr = io.MultiWriter(r.echo, &stderr)
	}

	// Ctrl-C in a terminal sends SIGINT to the whole foreground process
	// group, so the dev server receives it directly. Registering a handler
	// here only stops the default "terminate" action for this process; the
	// child is left to shut down and flush its stderr, and Run returns
	// normally so the captured log can still be analyzed. The handler is
	// removed as soon as the run ends, restoring normal Ctrl-C behavior
	// for the rest of the session (the HTTP call included).
	if r.interceptInterrupt {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		defer signal.Stop(sig)
	}

	if err := c.Start(); err != nil {
		return Result{Command: cmd}, model.WrapCLIError(
			model.ExitSpawnFailed,
			fmt.Sprintf("failed to start %q", cmd),
			errors.Join(model.ErrSpawnFailed, err),
		)
	}

	err := c.Wait()

	result := Result{
		Command:  cmd,
		Stderr:   stderr.String(),
		ExitCode: c.ProcessState.ExitCode(),
	}

	// A dev server that fails usually exits non-zero; that is the case this
	// tool exists for, so ExitError is a normal outcome. ErrWaitDelay means
	// orphaned grandchildren kept the pipe open (see waitDelay), and a
	// cancelled context means the caller asked to stop. In all of these the
	// partial stderr is still the useful result.
	var exitErr *exec.ExitError
	switch {
	case err == nil,
		errors.As(err, &exitErr),
		errors.Is(err, exec.ErrWaitDelay),
		ctx.Err() != nil:
		return result, nil
	default:
		return result, fmt.Errorf("dev server %q: %w", cmd, err)
	}
}

// defaultShell returns the interpreter used to run a command line.
// Going through the shell keeps each Command a single line, split and
// resolved through PATH exactly as it would be when typed by hand.
func defaultShell(goos string) []string {
	if goos == "windows" {
		return []string{"cmd", "/C"}
	}
	return []string{"sh", "-c"}
}
