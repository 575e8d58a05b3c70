package command

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds the wall-clock duration of every command run.
const DefaultTimeout = 5 * time.Minute

// Outcome holds the structured result of a command run. A command that never
// produced an exit status (timeout or launch failure) has ExitCode -1 and
// Completed() false; callers distinguish the two via TimedOut and Err.
type Outcome struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	TimedOut bool   `json:"timed_out,omitempty"`
	Err      string `json:"error,omitempty"`
}

// Completed reports whether the process ran to completion and produced an
// exit status, zero or not.
func (o *Outcome) Completed() bool {
	return !o.TimedOut && o.Err == ""
}

// OK reports whether the command completed with exit status zero.
func (o *Outcome) OK() bool {
	return o.Completed() && o.ExitCode == 0
}

// Detail returns a short human-readable description of a non-OK outcome,
// preferring stderr over stdout for failed commands.
func (o *Outcome) Detail() string {
	switch {
	case o.TimedOut:
		return "timed out"
	case o.Err != "":
		return o.Err
	}
	text := strings.TrimSpace(o.Stderr)
	if text == "" {
		text = strings.TrimSpace(o.Stdout)
	}
	if len(text) > 300 {
		text = text[:300] + "..."
	}
	return text
}

// Opts configures a single command run.
type Opts struct {
	Command string        // shell command line, run via sh -c
	Dir     string        // working directory; empty = inherit
	Stream  bool          // wire subprocess output to the parent's streams instead of capturing
	Timeout time.Duration // 0 = DefaultTimeout
}

// Runner executes external commands. Implementations never return an error:
// timeouts and launch failures are distinguished fields on the Outcome, and
// retry policy belongs to callers.
type Runner interface {
	Run(ctx context.Context, opts Opts) *Outcome
}

// Exec implements Runner by shelling out.
type Exec struct{}

func (e *Exec) Run(ctx context.Context, opts Opts) *Outcome {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", opts.Command)
	cmd.Dir = opts.Dir

	var stdoutBuf, stderrBuf strings.Builder
	if opts.Stream {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()

	outcome := &Outcome{
		ExitCode: 0,
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			outcome.ExitCode = -1
			outcome.TimedOut = true
			return outcome
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			outcome.ExitCode = exitErr.ExitCode()
			return outcome
		}
		// Launch failure: missing executable, permission error, bad dir.
		outcome.ExitCode = -1
		outcome.Err = err.Error()
	}
	return outcome
}
