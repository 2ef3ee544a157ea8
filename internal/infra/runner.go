package infra

import (
	"os/exec"
	"strings"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// ExecRunner implements domain.CommandRunner with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by the real host.
func NewExecRunner() domain.CommandRunner {
	return &ExecRunner{}
}

// Run executes a command, discarding output.
func (r *ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil // never let a host tool prompt interactively
	return cmd.Run()
}

// Output executes a command and returns its combined output as a string.
func (r *ExecRunner) Output(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// LookPath resolves a command name via PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Ensure ExecRunner implements domain.CommandRunner.
var _ domain.CommandRunner = (*ExecRunner)(nil)
