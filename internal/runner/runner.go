package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-hclog"
)

// Result holds the captured output of one tool invocation.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Command describes an external tool invocation.
// When Binary is not on PATH the tool is started as "<Python> -m <Module>".
type Command struct {
	Binary string
	Python string
	Module string
	Args   []string
}

// Executor runs external analysis tools.
type Executor interface {
	Run(ctx context.Context, c Command) (Result, error)
}

// LookPathFunc matches exec.LookPath.
type LookPathFunc func(file string) (string, error)

// Exec runs commands through os/exec.
type Exec struct {
	logger   hclog.Logger
	lookPath LookPathFunc
}

// New creates an Exec that resolves binaries with exec.LookPath.
func New(logger hclog.Logger) *Exec {
	return &Exec{logger: logger, lookPath: exec.LookPath}
}

// WithLookPath overrides binary discovery.
func (e *Exec) WithLookPath(fn LookPathFunc) *Exec {
	e.lookPath = fn
	return e
}

// Resolve returns the program and arguments that will be executed for c.
func (e *Exec) Resolve(c Command) (string, []string) {
	if _, err := e.lookPath(c.Binary); err == nil || c.Python == "" || c.Module == "" {
		return c.Binary, c.Args
	}
	args := append([]string{"-m", c.Module}, c.Args...)
	return c.Python, args
}

// Run starts the tool and waits for it to finish.
// A non-zero exit status is not an error here; callers apply their own allow-list to Result.ExitCode.
func (e *Exec) Run(ctx context.Context, c Command) (Result, error) {
	var result Result

	program, args := e.Resolve(c)
	cmd := exec.CommandContext(ctx, program, args...)
	e.logger.Debug("running tool", "cmd", cmd.Args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			e.logger.Debug("tool exited", "tool", program, "exit_code", result.ExitCode)
			return result, nil
		}
		return result, fmt.Errorf("failed to start %s: %w", program, err)
	}

	e.logger.Debug("tool exited", "tool", program, "exit_code", 0)
	return result, nil
}
