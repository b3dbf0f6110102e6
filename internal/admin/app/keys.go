package app

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type rotatable interface {
	RotateKeys() error
}

// keyRotator replaces the local signing key on a fixed interval. Retired
// keys stay in the JWKS until they age out of the key manager.
type keyRotator struct {
	keys     rotatable
	interval time.Duration
	logger   *slog.Logger

	stopCh   chan struct{}
	doneCh   chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

func newKeyRotator(keys rotatable, interval time.Duration, logger *slog.Logger) *keyRotator {
	return &keyRotator{
		keys:     keys,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (k *keyRotator) Start() {
	if !k.started.CompareAndSwap(false, true) {
		return
	}
	go k.run()
	k.logger.Info("key rotation started", "interval", k.interval)
}

func (k *keyRotator) Stop() {
	if !k.started.Load() {
		return
	}
	k.stopOnce.Do(func() {
		close(k.stopCh)
		<-k.doneCh
	})
}

func (k *keyRotator) run() {
	defer close(k.doneCh)

	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := k.keys.RotateKeys(); err != nil {
				k.logger.Error("key rotation failed", "error", err)
				continue
			}
			k.logger.Info("signing key rotated")
		case <-k.stopCh:
			return
		}
	}
}
