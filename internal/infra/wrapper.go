package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// controlBinaryName is the real container control CLI the wrapper
// forwards to.
const controlBinaryName = "lxc"

// fallbackControlPath is used when PATH resolution fails; the snap
// always installs the CLI here.
const fallbackControlPath = "/snap/bin/lxc"

// WrapperGenerator implements domain.WrapperManager. It emits a thin
// pass-through script under the stable RTC name, with the control
// binary's absolute path pinned at generation time so the wrapper can
// never resolve back to itself.
type WrapperGenerator struct {
	runner   domain.CommandRunner
	path     string
	fallback string
}

// NewWrapperGenerator creates a generator for the fixed wrapper path.
func NewWrapperGenerator(runner domain.CommandRunner) *WrapperGenerator {
	return &WrapperGenerator{runner: runner, path: WrapperPath, fallback: fallbackControlPath}
}

// NewWrapperGeneratorAt creates a generator writing to a custom path
// (for testing).
func NewWrapperGeneratorAt(runner domain.CommandRunner, path, fallback string) *WrapperGenerator {
	return &WrapperGenerator{runner: runner, path: path, fallback: fallback}
}

// Path returns the wrapper's install path.
func (g *WrapperGenerator) Path() string {
	return g.path
}

// Generate resolves the control binary and writes the wrapper script.
// Resolution that points back at the wrapper's own path is discarded in
// favor of the fallback, breaking any self-recursion permanently.
func (g *WrapperGenerator) Generate() (string, error) {
	target := g.resolveTarget()

	script := fmt.Sprintf("#!/bin/sh\nexec %q \"$@\"\n", target)

	if err := os.MkdirAll(filepath.Dir(g.path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(g.path, []byte(script), 0755); err != nil {
		return "", fmt.Errorf("write wrapper %s: %w", g.path, err)
	}
	// WriteFile does not raise permissions on an existing file.
	if err := os.Chmod(g.path, 0755); err != nil {
		return "", err
	}
	return target, nil
}

func (g *WrapperGenerator) resolveTarget() string {
	resolved, err := g.runner.LookPath(controlBinaryName)
	if err != nil {
		return g.fallback
	}
	if filepath.Clean(resolved) == filepath.Clean(g.path) {
		return g.fallback
	}
	return resolved
}

// Remove deletes the wrapper. A missing wrapper is success.
func (g *WrapperGenerator) Remove() error {
	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Ensure WrapperGenerator implements domain.WrapperManager.
var _ domain.WrapperManager = (*WrapperGenerator)(nil)
