//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/rathamcloud/rcsetup/internal/domain"
	"github.com/rathamcloud/rcsetup/internal/usecase"
)

// hostState is the shared in-memory model of a Linux host. The fakes
// below mutate it the way the real infra mutates a machine, so the
// orchestrators can be exercised end to end without root or LXD.
type hostState struct {
	packages map[string]bool

	daemonInstalled bool
	daemonStarted   bool
	daemonInit      bool

	pools map[string]bool

	cloned       bool
	requirements bool

	wrapperPresent bool
	wrapperTarget  string

	env map[string]string

	unitInstalled bool
	unitEnabled   bool
	unitActive    bool

	installDirPresent bool

	// counters for convergence assertions
	pkgInstalls  int
	poolCreates  int
	daemonStarts int
}

func newHostState() *hostState {
	return &hostState{
		packages: map[string]bool{},
		pools:    map[string]bool{},
	}
}

type fakePackages struct{ h *hostState }

func (f *fakePackages) Name() string                { return "fake" }
func (f *fakePackages) IsAvailable() bool           { return true }
func (f *fakePackages) IsInstalled(pkg string) bool { return f.h.packages[pkg] }

func (f *fakePackages) Install(pkg string) error {
	f.h.pkgInstalls++
	f.h.packages[pkg] = true
	return nil
}

type fakeDaemon struct {
	h *hostState

	// socketDelay withholds the socket for the first n readiness polls
	// after a start, modelling slow daemon startup.
	socketDelay int
	polls       int
}

func (f *fakeDaemon) IsInstalled() bool { return f.h.daemonInstalled }

func (f *fakeDaemon) Install() error {
	f.h.daemonInstalled = true
	return nil
}

func (f *fakeDaemon) Start() error {
	if !f.h.daemonInstalled {
		return errors.New("daemon not installed")
	}
	f.h.daemonStarts++
	f.h.daemonStarted = true
	f.polls = 0
	return nil
}

func (f *fakeDaemon) SocketReady() bool {
	if !f.h.daemonStarted {
		return false
	}
	f.polls++
	return f.polls > f.socketDelay
}

func (f *fakeDaemon) AutoInit() error {
	if f.h.daemonInit {
		return errors.New("already initialized")
	}
	f.h.daemonInit = true
	return nil
}

func (f *fakeDaemon) StatusDump() string { return "fake daemon status" }

func (f *fakeDaemon) Remove() error {
	f.h.daemonInstalled = false
	f.h.daemonStarted = false
	f.h.daemonInit = false
	f.h.pools = map[string]bool{}
	return nil
}

type fakeStorage struct{ h *hostState }

func (f *fakeStorage) PoolExists(name string) bool { return f.h.pools[name] }

func (f *fakeStorage) CreatePool(name string) error {
	if !f.h.daemonStarted {
		return errors.New("daemon not running")
	}
	f.h.poolCreates++
	f.h.pools[name] = true
	return nil
}

type fakeFetcher struct{ h *hostState }

func (f *fakeFetcher) Fetch(_ context.Context, repoURL, dir string) error {
	f.h.cloned = true
	f.h.installDirPresent = true
	return nil
}

func (f *fakeFetcher) InstallRequirements(dir string) error {
	f.h.requirements = true
	return nil
}

type fakeWrapper struct{ h *hostState }

func (f *fakeWrapper) Generate() (string, error) {
	f.h.wrapperPresent = true
	f.h.wrapperTarget = "/snap/bin/lxc"
	return f.h.wrapperTarget, nil
}

func (f *fakeWrapper) Remove() error {
	f.h.wrapperPresent = false
	return nil
}

func (f *fakeWrapper) Path() string { return "/usr/local/bin/RTC" }

type fakeEnvStore struct{ h *hostState }

func (f *fakeEnvStore) Write(cfg domain.InstallConfig) error {
	f.h.env = map[string]string{
		domain.EnvKeyDiscordToken: cfg.DiscordToken,
		domain.EnvKeyMainAdminID:  cfg.AdminID,
		domain.EnvKeyUserRoleID:   cfg.AdminID,
		domain.EnvKeyStoragePool:  cfg.StoragePool,
	}
	return nil
}

func (f *fakeEnvStore) Read(installDir string) (map[string]string, error) {
	if f.h.env == nil {
		return nil, errors.New("no env file")
	}
	return f.h.env, nil
}

type fakeService struct{ h *hostState }

func (f *fakeService) InstallUnit(sourcePath string, cfg domain.InstallConfig) error {
	f.h.unitInstalled = true
	return nil
}

func (f *fakeService) IsUnitInstalled() bool { return f.h.unitInstalled }
func (f *fakeService) Reload() error         { return nil }

func (f *fakeService) Enable() error {
	if !f.h.unitInstalled {
		return errors.New("unit not found")
	}
	f.h.unitEnabled = true
	return nil
}

func (f *fakeService) Restart() error {
	if !f.h.unitInstalled {
		return errors.New("unit not found")
	}
	f.h.unitActive = true
	return nil
}

func (f *fakeService) Stop() error {
	f.h.unitActive = false
	return nil
}

func (f *fakeService) Disable() error {
	f.h.unitEnabled = false
	return nil
}

func (f *fakeService) RemoveUnit() error {
	f.h.unitInstalled = false
	return nil
}

func (f *fakeService) IsEnabled() bool  { return f.h.unitEnabled }
func (f *fakeService) IsActive() bool   { return f.h.unitActive }
func (f *fakeService) UnitPath() string { return "/etc/systemd/system/" + domain.UnitFileName }

type fakeHostFS struct{ h *hostState }

func (f *fakeHostFS) Exists(path string) bool { return f.h.installDirPresent }
func (f *fakeHostFS) Remove(path string) error {
	return nil
}

func (f *fakeHostFS) RemoveAll(path string) error {
	f.h.installDirPresent = false
	f.h.cloned = false
	f.h.env = nil
	return nil
}

func (f *fakeHostFS) MkdirAll(path string, perm os.FileMode) error {
	f.h.installDirPresent = true
	return nil
}

type scriptedPrompter struct{ responses []string }

func (p *scriptedPrompter) next() (string, error) {
	if len(p.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	r := p.responses[0]
	p.responses = p.responses[1:]
	return r, nil
}

func (p *scriptedPrompter) Prompt(string) (string, error)       { return p.next() }
func (p *scriptedPrompter) PromptSecret(string) (string, error) { return p.next() }

type nopSleeper struct{}

func (nopSleeper) Sleep(time.Duration) {}

// fakeHost bundles the state and the orchestrator wiring for one
// simulated machine.
type fakeHost struct {
	state  *hostState
	daemon *fakeDaemon
}

func newFakeHost() *fakeHost {
	s := newHostState()
	return &fakeHost{state: s, daemon: &fakeDaemon{h: s}}
}

func (f *fakeHost) installer(responses ...string) *usecase.Installer {
	logger := zap.NewNop()
	activator := usecase.NewActivator(f.daemon, nopSleeper{}, logger)
	return usecase.NewInstaller(
		[]string{"curl", "git", "python3", "python3-pip", "snapd"},
		&fakePackages{h: f.state},
		activator,
		&fakeStorage{h: f.state},
		&fakeFetcher{h: f.state},
		&fakeWrapper{h: f.state},
		&fakeEnvStore{h: f.state},
		&scriptedPrompter{responses: responses},
		&fakeService{h: f.state},
		logger,
	)
}

func (f *fakeHost) uninstaller(assumeYes bool, responses ...string) *usecase.Uninstaller {
	return usecase.NewUninstaller(
		&fakeService{h: f.state},
		&fakeWrapper{h: f.state},
		f.daemon,
		&fakeHostFS{h: f.state},
		&scriptedPrompter{responses: responses},
		"/opt/rathamcloud",
		assumeYes,
		zap.NewNop(),
	)
}
