package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const mailSendTimeout = 30 * time.Second

// WelcomeMailer delivers welcome emails.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, to, name string) error
}

// MailJob is a queued welcome email.
type MailJob struct {
	To   string
	Name string
}

// MailDispatcher drains a bounded queue of emails with a pool of workers.
type MailDispatcher struct {
	mailer  WelcomeMailer
	workers int
	logger  *slog.Logger

	jobs    chan MailJob
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	stopped bool
	mu      sync.Mutex
}

// NewMailDispatcher constructs mail worker pool.
func NewMailDispatcher(mailer WelcomeMailer, workers, queueSize int, logger *slog.Logger) *MailDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}
	return &MailDispatcher{
		mailer:  mailer,
		workers: workers,
		logger:  logger,
		jobs:    make(chan MailJob, queueSize),
	}
}

// Start launches the workers.
func (d *MailDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil || d.stopped {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop waits for all workers to finish. Jobs still queued are dropped and later
// Enqueue calls are rejected.
func (d *MailDispatcher) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
	if pending := len(d.jobs); pending > 0 {
		d.logger.Warn("mail dispatcher stopped with pending jobs", slog.Int("pending", pending))
	}
}

// Enqueue schedules a job without blocking. It reports false when the queue is full
// or the dispatcher has been stopped.
func (d *MailDispatcher) Enqueue(job MailJob) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		d.logger.Warn("mail dispatcher stopped, dropping email", slog.String("to", job.To))
		return false
	}

	select {
	case d.jobs <- job:
		return true
	default:
		d.logger.Warn("mail queue is full, dropping email", slog.String("to", job.To))
		return false
	}
}

func (d *MailDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-d.jobs:
			d.handle(ctx, job)
		}
	}
}

func (d *MailDispatcher) handle(ctx context.Context, job MailJob) {
	sendCtx, cancel := context.WithTimeout(ctx, mailSendTimeout)
	defer cancel()

	if err := d.mailer.SendWelcome(sendCtx, job.To, job.Name); err != nil {
		d.logger.Error("welcome email failed", slog.String("to", job.To), slog.String("error", err.Error()))
		return
	}
	d.logger.Info("welcome email sent", slog.String("to", job.To))
}
