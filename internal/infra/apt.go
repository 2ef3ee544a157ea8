package infra

import (
	"fmt"
	"strings"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// AptStrategy installs OS packages via apt-get.
type AptStrategy struct {
	runner domain.CommandRunner
}

// NewAptStrategy creates the apt package strategy.
func NewAptStrategy(runner domain.CommandRunner) *AptStrategy {
	return &AptStrategy{runner: runner}
}

func (a *AptStrategy) Name() string {
	return "apt"
}

func (a *AptStrategy) IsAvailable() bool {
	_, err := a.runner.LookPath("apt-get")
	return err == nil
}

// IsInstalled checks the dpkg database for an installed package.
func (a *AptStrategy) IsInstalled(pkg string) bool {
	out, err := a.runner.Output("dpkg-query", "-W", "-f=${Status}", pkg)
	if err != nil {
		return false
	}
	return strings.Contains(out, "install ok installed")
}

// Install installs a package non-interactively. apt treats an
// already-installed package as success, so re-runs converge.
func (a *AptStrategy) Install(pkg string) error {
	if err := a.runner.Run("apt-get", "install", "-y", pkg); err != nil {
		return fmt.Errorf("apt-get install %s: %w", pkg, err)
	}
	return nil
}

// SnapStrategy installs packages via snap.
type SnapStrategy struct {
	runner domain.CommandRunner
}

// NewSnapStrategy creates the snap package strategy.
func NewSnapStrategy(runner domain.CommandRunner) *SnapStrategy {
	return &SnapStrategy{runner: runner}
}

func (s *SnapStrategy) Name() string {
	return "snap"
}

func (s *SnapStrategy) IsAvailable() bool {
	_, err := s.runner.LookPath("snap")
	return err == nil
}

// IsInstalled checks if the snap is listed on the host.
func (s *SnapStrategy) IsInstalled(pkg string) bool {
	return s.runner.Run("snap", "list", pkg) == nil
}

// Install installs the snap.
func (s *SnapStrategy) Install(pkg string) error {
	if err := s.runner.Run("snap", "install", pkg); err != nil {
		return fmt.Errorf("snap install %s: %w", pkg, err)
	}
	return nil
}

// Ensure implementations satisfy domain.PackageStrategy.
var (
	_ domain.PackageStrategy = (*AptStrategy)(nil)
	_ domain.PackageStrategy = (*SnapStrategy)(nil)
)
