// Package usecase contains the provisioning orchestration logic.
package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// Socket wait bounds. Daemon startup is asynchronous and offers no
// readiness callback, so readiness is observed by polling the control
// socket, never by waiting indefinitely.
const (
	SocketPollInterval = 2 * time.Second
	SocketMaxAttempts  = 30
)

// waitState is the explicit state of the bounded socket wait.
type waitState int

const (
	waitPending waitState = iota
	waitReady
	waitExhausted
)

// Activator ensures the container engine daemon is installed and its
// control socket reachable within a bounded wait.
type Activator struct {
	daemon   domain.DaemonController
	sleeper  domain.Sleeper
	logger   *zap.Logger
	interval time.Duration
	attempts int
}

// NewActivator creates an activator with the standard bounds.
func NewActivator(daemon domain.DaemonController, sleeper domain.Sleeper, logger *zap.Logger) *Activator {
	return &Activator{
		daemon:   daemon,
		sleeper:  sleeper,
		logger:   logger,
		interval: SocketPollInterval,
		attempts: SocketMaxAttempts,
	}
}

// Activate installs the daemon if absent, starts it, waits for the
// control socket, then runs the best-effort default initialization.
// Exhausting the wait is a distinct fatal error carrying the attempt
// count, with the daemon's service status dumped for diagnosis.
func (a *Activator) Activate(ctx context.Context) error {
	if !a.daemon.IsInstalled() {
		a.logger.Info("installing container engine daemon")
		if err := a.daemon.Install(); err != nil {
			return fmt.Errorf("install daemon: %w", err)
		}
	} else {
		a.logger.Info("container engine daemon already installed")
	}

	if err := a.daemon.Start(); err != nil {
		return fmt.Errorf("daemon failed to start: %w", err)
	}

	attempts, err := a.waitForSocket(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("daemon socket ready", zap.Int("attempts", attempts))

	// A pre-initialized daemon rejects re-initialization; that is the
	// expected idempotent case.
	if err := a.daemon.AutoInit(); err != nil {
		a.logger.Warn("daemon auto-init skipped", zap.Error(err))
	}

	return nil
}

// waitForSocket polls for socket existence, returning the attempt count
// on success and a SocketWaitError on exhaustion.
func (a *Activator) waitForSocket(ctx context.Context) (int, error) {
	state := waitPending
	attempt := 0

	for state == waitPending {
		if err := ctx.Err(); err != nil {
			return attempt, err
		}

		attempt++
		if a.daemon.SocketReady() {
			state = waitReady
			break
		}

		a.logger.Info("waiting for daemon socket",
			zap.Int("attempt", attempt),
			zap.Int("max", a.attempts))

		if attempt >= a.attempts {
			state = waitExhausted
			break
		}
		a.sleeper.Sleep(a.interval)
	}

	if state == waitExhausted {
		a.logger.Error("daemon socket never appeared",
			zap.Int("attempts", attempt),
			zap.String("status", a.daemon.StatusDump()))
		return attempt, &domain.SocketWaitError{
			Attempts: attempt,
			Interval: a.interval.String(),
		}
	}

	return attempt, nil
}
