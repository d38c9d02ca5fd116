package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/ocexchange/internal/adapter/marketdata"
)

// MarketSource refreshes the cached market snapshot.
type MarketSource interface {
	Refresh(ctx context.Context) error
}

// MarketRefresher polls the market data API and keeps the snapshot warm.
type MarketRefresher struct {
	source   MarketSource
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewMarketRefresher constructs market refresher.
func NewMarketRefresher(source MarketSource, interval time.Duration, logger *slog.Logger) *MarketRefresher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &MarketRefresher{source: source, interval: interval, logger: logger}
}

// Start launches background polling. The first refresh happens immediately.
func (r *MarketRefresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(runCtx)
}

// Stop cancels polling and waits for the loop to exit.
func (r *MarketRefresher) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *MarketRefresher) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *MarketRefresher) refresh(ctx context.Context) {
	err := r.source.Refresh(ctx)
	if err == nil {
		return
	}

	var tooMany marketdata.TooManyRequestsError
	switch {
	case errors.As(err, &tooMany):
		r.logger.Warn("market data rate limited", slog.Duration("retry_after", tooMany.RetryAfter))
		sleep(ctx, tooMany.RetryAfter)
	case errors.Is(err, context.Canceled):
	default:
		r.logger.Error("market data refresh failed", slog.String("error", err.Error()))
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
