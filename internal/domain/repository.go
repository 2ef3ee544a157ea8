package domain

import (
	"context"
	"os"
	"time"
)

// CommandRunner executes external host tools. The host's package manager,
// service manager and container engine are all driven through their CLIs,
// so everything above this interface is testable without a real host.
type CommandRunner interface {
	// Run executes a command, discarding output. A non-zero exit status
	// is returned as an error.
	Run(name string, args ...string) error

	// Output executes a command and returns its combined output.
	Output(name string, args ...string) (string, error)

	// LookPath resolves a command name to an absolute path via PATH.
	LookPath(name string) (string, error)
}

// PackageStrategy installs OS packages through one package manager
// (apt, snap). Installing an already-installed package is a no-op.
type PackageStrategy interface {
	// Name returns the strategy name (e.g., "apt", "snap").
	Name() string

	// IsAvailable returns true if this package manager exists on the host.
	IsAvailable() bool

	// IsInstalled checks if the package is installed via this manager.
	IsInstalled(pkg string) bool

	// Install installs the package. Fatal on error; later stages assume
	// these tools exist.
	Install(pkg string) error
}

// DaemonController manages the container engine daemon (LXD).
type DaemonController interface {
	// IsInstalled checks if the daemon is installed on the host.
	IsInstalled() bool

	// Install installs the daemon package.
	Install() error

	// Start issues the daemon start command. Startup is asynchronous;
	// readiness is observed via SocketReady.
	Start() error

	// SocketReady checks if the daemon's control socket exists.
	SocketReady() bool

	// AutoInit runs the daemon's one-time default initialization.
	// Failure is tolerated; a pre-initialized daemon is expected.
	AutoInit() error

	// StatusDump returns the daemon's service status for operator
	// diagnosis when the socket never appears.
	StatusDump() string

	// Remove uninstalls the daemon and its data.
	Remove() error
}

// StorageManager manages named storage pools in the daemon.
type StorageManager interface {
	// PoolExists checks if the named pool is registered.
	PoolExists(name string) bool

	// CreatePool registers a new pool. Creation failure is warned, not
	// fatal; backend drivers may already satisfy the requirement.
	CreatePool(name string) error
}

// ServiceManager drives the bot's systemd unit through its lifecycle.
// All transitions are idempotent from systemd's point of view.
type ServiceManager interface {
	// InstallUnit places the unit file into the unit directory, copying
	// the descriptor from sourcePath verbatim when it exists and
	// generating a default one otherwise.
	InstallUnit(sourcePath string, cfg InstallConfig) error

	// IsUnitInstalled checks if the unit file is present.
	IsUnitInstalled() bool

	// Reload makes the service manager re-read unit files.
	Reload() error

	// Enable marks the unit for start on boot.
	Enable() error

	// Restart (re)starts the unit. Valid from any installed state.
	Restart() error

	// Stop stops the unit, tolerating an already-stopped unit.
	Stop() error

	// Disable unmarks the unit, tolerating an already-disabled unit.
	Disable() error

	// RemoveUnit deletes the unit file.
	RemoveUnit() error

	// IsEnabled checks if the unit is enabled.
	IsEnabled() bool

	// IsActive checks if the unit is running.
	IsActive() bool

	// UnitPath returns the installed unit file path.
	UnitPath() string
}

// SourceFetcher brings the bot source tree into the install directory.
type SourceFetcher interface {
	// Fetch clones repoURL into dir, or updates an existing clone.
	// An already-up-to-date tree is success.
	Fetch(ctx context.Context, repoURL, dir string) error

	// InstallRequirements installs the bot's runtime dependencies from
	// the fetched tree.
	InstallRequirements(dir string) error
}

// WrapperManager owns the generated RTC wrapper executable.
type WrapperManager interface {
	// Generate resolves the real control binary and writes the wrapper,
	// returning the pinned target path. Last writer wins.
	Generate() (target string, err error)

	// Remove deletes the wrapper. A missing wrapper is success.
	Remove() error

	// Path returns the wrapper's fixed install path.
	Path() string
}

// EnvFileStore persists the captured configuration as a flat
// KEY=value file.
type EnvFileStore interface {
	// Write serializes cfg to the environment file, overwriting any
	// previous capture.
	Write(cfg InstallConfig) error

	// Read loads the environment file back as a key-value map.
	Read(installDir string) (map[string]string, error)
}

// Prompter collects operator input from the console.
type Prompter interface {
	// Prompt displays label and returns the entered line, trimmed.
	// Empty input is returned as-is; the installer is permissive.
	Prompt(label string) (string, error)

	// PromptSecret reads a value without echoing when the input is a
	// terminal.
	PromptSecret(label string) (string, error)
}

// FileSystem covers the filesystem mutations the orchestrator performs
// outside the other capabilities.
type FileSystem interface {
	// Exists checks if a path exists.
	Exists(path string) bool

	// Remove deletes a single file.
	Remove(path string) error

	// RemoveAll deletes a path recursively.
	RemoveAll(path string) error

	// MkdirAll creates a directory and parents.
	MkdirAll(path string, perm os.FileMode) error
}

// Sleeper abstracts the poll delay so bounded waits are testable
// without real elapsed time.
type Sleeper interface {
	Sleep(d time.Duration)
}
