// Package shellutil runs shell commands with captured output, process
// group cleanup and timeout support.
package shellutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"golang.org/x/term"

	"github.com/lixenwraith/apputil/errutil"
)

// Result holds the outcome of a completed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes command through the shell and captures its output. The
// command and any children it spawns are killed together when ctx is
// cancelled. A non-zero exit status is not an error; check
// Result.ExitCode. An error is returned only when the command could not
// run or was cut short.
func Run(ctx context.Context, command string) (*Result, error) {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	setProcessGroup(cmd)

	err := cmd.Run()
	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("command '%s' interrupted: %w", command, errutil.ErrTimeout)
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			// The command ran and exited non-zero; the caller decides.
			return res, nil
		}
		return nil, fmt.Errorf("failed to run command '%s': %w", command, err)
	}
	return res, nil
}

// RunTimeout executes command with a deadline. On timeout the process
// group is killed and the error wraps errutil.ErrTimeout.
func RunTimeout(command string, timeout time.Duration) (*Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return Run(ctx, command)
}

// ConsoleSize returns the terminal dimensions of stdout, falling back to
// 80x25 when stdout is not a terminal.
func ConsoleSize() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 25
	}
	return w, h
}
