// Package toolexec runs external command-line tools on a best-effort basis.
//
// Every invocation yields a Result instead of an error: a missing tool, a
// non-zero exit and a timeout all collapse into an empty, not-OK result.
// Callers treat "no output" as "no data".
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/metrics"
)

// DefaultTimeout bounds invocations issued with a non-positive timeout.
const DefaultTimeout = 2 * time.Second

// waitDelay bounds how long Run waits for output pipes after the process
// group has been killed.
const waitDelay = 250 * time.Millisecond

// Result is the outcome of a best-effort tool invocation.
type Result struct {
	Output string
	OK     bool
}

// Lines returns the non-empty lines of the output.
func (r Result) Lines() []string {
	if !r.OK || r.Output == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(r.Output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Process is a detached child started by Start.
type Process struct {
	PID int
	// Done receives the child's exit status exactly once.
	Done <-chan error
}

// Runner runs external tools.
type Runner interface {
	// Run invokes name with args and waits at most timeout.
	Run(timeout time.Duration, name string, args ...string) Result
	// Exists reports whether name resolves on PATH right now.
	Exists(name string) bool
	// Start launches name detached from the caller's session.
	Start(dir, name string, args ...string) (*Process, error)
}

// Test hooks.
var (
	lookPath = exec.LookPath
)

// Exec is the os/exec backed Runner.
type Exec struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

var _ Runner = (*Exec)(nil)

// New creates a Runner. logger and m may be nil.
func New(logger *zap.Logger, m *metrics.Metrics) *Exec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exec{logger: logger, metrics: m}
}

// Exists performs a PATH lookup. The result is never cached so a tool
// installed while the daemon runs is picked up on the next request.
func (e *Exec) Exists(name string) bool {
	_, err := lookPath(name)
	return err == nil
}

// Run spawns exactly one process. On timeout the whole process group is
// killed so no child outlives the call.
func (e *Exec) Run(timeout time.Duration, name string, args ...string) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	path, err := lookPath(name)
	if err != nil {
		e.metrics.ObserveTool(name, metrics.OutcomeMissing, 0)
		e.logger.Debug("tool not found", zap.String("tool", name))
		return Result{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = waitDelay

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		e.metrics.ObserveTool(name, metrics.OutcomeTimeout, elapsed)
		e.logger.Warn("tool timed out",
			zap.String("tool", name),
			zap.Strings("args", args),
			zap.Duration("timeout", timeout),
		)
		return Result{}
	case err != nil:
		e.metrics.ObserveTool(name, metrics.OutcomeFailed, elapsed)
		e.logger.Debug("tool failed",
			zap.String("tool", name),
			zap.Strings("args", args),
			zap.Error(err),
		)
		return Result{}
	}

	e.metrics.ObserveTool(name, metrics.OutcomeOK, elapsed)
	e.logger.Debug("tool ok",
		zap.String("tool", name),
		zap.Strings("args", args),
		zap.Duration("elapsed", elapsed),
	)
	return Result{Output: stdout.String(), OK: true}
}

// Start launches name in its own session with no stdio attached. The child
// is reaped in the background; its exit status is delivered on Done.
func (e *Exec) Start(dir, name string, args ...string) (*Process, error) {
	path, err := lookPath(name)
	if err != nil {
		e.metrics.ObserveTool(name, metrics.OutcomeMissing, 0)
		return nil, fmt.Errorf("%s not found in PATH: %w", name, err)
	}

	cmd := exec.Command(path, args...)
	cmd.Dir = dir
	detach(cmd)

	if err := cmd.Start(); err != nil {
		e.metrics.ObserveTool(name, metrics.OutcomeFailed, 0)
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	e.metrics.ObserveTool(name, metrics.OutcomeOK, 0)
	e.logger.Info("launched",
		zap.String("tool", name),
		zap.Strings("args", args),
		zap.String("dir", dir),
		zap.Int("pid", cmd.Process.Pid),
	)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	return &Process{PID: cmd.Process.Pid, Done: done}, nil
}
