package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// Uninstaller reverses the install in dependency order. Service
// teardown and artifact removal are unconditional; the destructive
// steps (install directory, daemon) each sit behind their own
// confirmation gate, and declining one gate never blocks the next from
// being offered.
type Uninstaller struct {
	service    domain.ServiceManager
	wrapper    domain.WrapperManager
	daemon     domain.DaemonController
	fs         domain.FileSystem
	prompter   domain.Prompter
	installDir string
	assumeYes  bool
	logger     *zap.Logger
}

// NewUninstaller wires the teardown orchestrator. assumeYes accepts
// every confirmation gate without prompting.
func NewUninstaller(
	service domain.ServiceManager,
	wrapper domain.WrapperManager,
	daemon domain.DaemonController,
	fs domain.FileSystem,
	prompter domain.Prompter,
	installDir string,
	assumeYes bool,
	logger *zap.Logger,
) *Uninstaller {
	return &Uninstaller{
		service:    service,
		wrapper:    wrapper,
		daemon:     daemon,
		fs:         fs,
		prompter:   prompter,
		installDir: installDir,
		assumeYes:  assumeYes,
		logger:     logger,
	}
}

// Run tears the installation down. Declined gates are successful
// skip branches, not errors.
func (u *Uninstaller) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Already-stopped and already-disabled are tolerated no-ops.
	if err := u.service.Stop(); err != nil {
		u.logger.Info("service already stopped", zap.Error(err))
	}
	if err := u.service.Disable(); err != nil {
		u.logger.Info("service already disabled", zap.Error(err))
	}

	if u.service.IsUnitInstalled() {
		if err := u.service.RemoveUnit(); err != nil {
			return fmt.Errorf("remove service unit: %w", err)
		}
		if err := u.service.Reload(); err != nil {
			return err
		}
		u.logger.Info("service unit removed", zap.String("unit", u.service.UnitPath()))
	}

	if err := u.wrapper.Remove(); err != nil {
		return fmt.Errorf("remove wrapper: %w", err)
	}
	u.logger.Info("wrapper removed", zap.String("path", u.wrapper.Path()))

	if u.confirm("Remove the install directory and all bot data? [y/N]") {
		if err := u.fs.RemoveAll(u.installDir); err != nil {
			return fmt.Errorf("remove install directory: %w", err)
		}
		u.logger.Info("install directory removed", zap.String("dir", u.installDir))
	} else {
		u.logger.Info("keeping install directory")
	}

	if u.confirm("Remove LXD and all containers? [y/N]") {
		if err := u.daemon.Remove(); err != nil {
			return fmt.Errorf("remove daemon: %w", err)
		}
		u.logger.Info("daemon removed")
	} else {
		u.logger.Info("keeping daemon")
	}

	return nil
}

// confirm runs one confirmation gate. A prompt read failure declines,
// never aborts: the remaining gates must still be offered.
func (u *Uninstaller) confirm(label string) bool {
	if u.assumeYes {
		return true
	}
	response, err := u.prompter.Prompt(label)
	if err != nil {
		u.logger.Warn("confirmation read failed, skipping", zap.Error(err))
		return false
	}
	return domain.ParseDecision(response) == domain.Proceed
}
