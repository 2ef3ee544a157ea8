package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// Installer drives the full provisioning flow. Each stage is a
// precondition for the next; any fatal stage error aborts the run. The
// host is re-queried on every run, so re-running after a failure or an
// interrupt converges to the same end state.
type Installer struct {
	packages  []string
	pkg       domain.PackageStrategy
	activator *Activator
	storage   domain.StorageManager
	fetcher   domain.SourceFetcher
	wrapper   domain.WrapperManager
	env       domain.EnvFileStore
	prompter  domain.Prompter
	service   domain.ServiceManager
	logger    *zap.Logger
}

// NewInstaller wires the provisioning orchestrator.
func NewInstaller(
	packages []string,
	pkg domain.PackageStrategy,
	activator *Activator,
	storage domain.StorageManager,
	fetcher domain.SourceFetcher,
	wrapper domain.WrapperManager,
	env domain.EnvFileStore,
	prompter domain.Prompter,
	service domain.ServiceManager,
	logger *zap.Logger,
) *Installer {
	return &Installer{
		packages:  packages,
		pkg:       pkg,
		activator: activator,
		storage:   storage,
		fetcher:   fetcher,
		wrapper:   wrapper,
		env:       env,
		prompter:  prompter,
		service:   service,
		logger:    logger,
	}
}

// Run provisions the host. cfg carries the install directory, storage
// pool and repo URL; the token and admin ID are captured interactively.
// The completed config is returned for the caller's summary.
func (i *Installer) Run(ctx context.Context, cfg domain.InstallConfig) (domain.InstallConfig, error) {
	if err := i.installPackages(); err != nil {
		return cfg, err
	}

	if err := i.activator.Activate(ctx); err != nil {
		return cfg, err
	}

	i.ensureStoragePool(cfg.StoragePool)

	if err := i.fetchSource(ctx, cfg); err != nil {
		return cfg, err
	}

	target, err := i.wrapper.Generate()
	if err != nil {
		return cfg, fmt.Errorf("generate wrapper: %w", err)
	}
	i.logger.Info("wrapper generated",
		zap.String("path", i.wrapper.Path()),
		zap.String("target", target))

	cfg, err = i.captureConfig(cfg)
	if err != nil {
		return cfg, err
	}

	if err := i.installService(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// installPackages ensures the base packages. A package manager error is
// fatal: later stages assume these tools exist.
func (i *Installer) installPackages() error {
	for _, pkg := range i.packages {
		if i.pkg.IsInstalled(pkg) {
			i.logger.Info("package already installed", zap.String("package", pkg))
			continue
		}
		i.logger.Info("installing package", zap.String("package", pkg))
		if err := i.pkg.Install(pkg); err != nil {
			return fmt.Errorf("install package %s: %w", pkg, err)
		}
	}
	return nil
}

// ensureStoragePool creates the pool if absent. Creation failure is
// warned, not fatal: pool semantics vary across backend drivers and a
// false failure must not block provisioning.
func (i *Installer) ensureStoragePool(name string) {
	if i.storage.PoolExists(name) {
		i.logger.Info("storage pool already exists", zap.String("pool", name))
		return
	}
	if err := i.storage.CreatePool(name); err != nil {
		i.logger.Warn("storage pool creation failed, continuing",
			zap.String("pool", name),
			zap.Error(err))
		return
	}
	i.logger.Info("storage pool created", zap.String("pool", name))
}

func (i *Installer) fetchSource(ctx context.Context, cfg domain.InstallConfig) error {
	if err := i.fetcher.Fetch(ctx, cfg.RepoURL, cfg.InstallDir); err != nil {
		return fmt.Errorf("fetch bot source: %w", err)
	}
	if err := i.fetcher.InstallRequirements(cfg.InstallDir); err != nil {
		return fmt.Errorf("install bot requirements: %w", err)
	}
	return nil
}

// captureConfig collects the operator secrets and writes the
// environment file. Empty values are accepted and passed through.
func (i *Installer) captureConfig(cfg domain.InstallConfig) (domain.InstallConfig, error) {
	token, err := i.prompter.PromptSecret("Discord bot token")
	if err != nil {
		return cfg, err
	}
	adminID, err := i.prompter.Prompt("Main admin Discord ID")
	if err != nil {
		return cfg, err
	}

	cfg.DiscordToken = token
	cfg.AdminID = adminID

	if err := i.env.Write(cfg); err != nil {
		return cfg, fmt.Errorf("write configuration: %w", err)
	}
	i.logger.Info("configuration written", zap.String("path", cfg.EnvFilePath()))
	return cfg, nil
}

// installService drives the unit to installed-enabled-active. All
// transitions are idempotent; a failed transition aborts with the error
// surfaced, leaving recovery to a re-run.
func (i *Installer) installService(cfg domain.InstallConfig) error {
	if err := i.service.InstallUnit(cfg.UnitSourcePath(), cfg); err != nil {
		return fmt.Errorf("install service unit: %w", err)
	}
	if err := i.service.Reload(); err != nil {
		return err
	}
	if err := i.service.Enable(); err != nil {
		return err
	}
	if err := i.service.Restart(); err != nil {
		return err
	}
	i.logger.Info("service running", zap.String("unit", i.service.UnitPath()))
	return nil
}
