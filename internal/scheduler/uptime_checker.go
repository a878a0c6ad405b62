package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/index"
	"github.com/jankclient/directory/internal/logger"
)

// InstanceSource provides the current instance directory.
type InstanceSource interface {
	Load() ([]domain.Instance, error)
}

// PassRunner runs one monitoring pass.
type PassRunner interface {
	RunPass(ctx context.Context, instances []domain.Instance) (index.PassReport, error)
}

// UptimeChecker triggers monitoring passes periodically and on demand
type UptimeChecker struct {
	source        InstanceSource
	runner        PassRunner
	logger        logger.Logger
	interval      time.Duration
	manualTrigger <-chan struct{}

	passMu   sync.Mutex
	lastGood []domain.Instance

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewUptimeChecker creates a new uptime checker. interval is the tick at
// which due instances are looked for, not the per-instance check interval.
func NewUptimeChecker(
	source InstanceSource,
	runner PassRunner,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *UptimeChecker {
	return &UptimeChecker{
		source:        source,
		runner:        runner,
		logger:        log,
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
	}
}

// Start runs a pass immediately, then keeps checking in the background
func (uc *UptimeChecker) Start(ctx context.Context) {
	uc.RunOnce(ctx)

	ticker := time.NewTicker(uc.interval)
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				uc.RunOnce(ctx)
			case <-uc.manualTrigger:
				uc.logger.Info("manual uptime check triggered")
				uc.RunOnce(ctx)
			case <-uc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the checker and waits for an in-flight pass to finish
func (uc *UptimeChecker) Stop() {
	uc.stopOnce.Do(func() { close(uc.stopCh) })
	uc.wg.Wait()
}

// RunOnce reloads the directory and runs a pass. It returns false without
// doing anything when another pass is still running.
func (uc *UptimeChecker) RunOnce(ctx context.Context) bool {
	if !uc.passMu.TryLock() {
		uc.logger.Warn("uptime pass still running, skipping")
		return false
	}
	defer uc.passMu.Unlock()

	instances, ok := uc.instances()
	if !ok {
		return true
	}

	if _, err := uc.runner.RunPass(ctx, instances); err != nil {
		uc.logger.Error("uptime pass failed", logger.Error(err))
	}
	return true
}

// instances loads the directory, falling back to the last good copy when
// the file cannot be read. Must be called with passMu held.
func (uc *UptimeChecker) instances() ([]domain.Instance, bool) {
	loaded, err := uc.source.Load()
	if err == nil {
		uc.lastGood = loaded
		return loaded, true
	}

	if uc.lastGood == nil {
		uc.logger.Error("failed to load instances, skipping pass", logger.Error(err))
		return nil, false
	}

	uc.logger.Warn("failed to reload instances, using previous directory",
		logger.Error(err),
		logger.Int("count", len(uc.lastGood)))
	return uc.lastGood, true
}
