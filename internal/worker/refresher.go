package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"scorecard/pkg/logx"
)

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Refresher periodically enqueues a refresh task per configured CSV source,
// keeping file-backed datasets in step with the files on disk.
type Refresher struct {
	client  taskEnqueuer
	sources []string

	interval time.Duration
	queue    string

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewRefresher(client taskEnqueuer, sources []string) *Refresher {
	return &Refresher{
		client:   client,
		sources:  sources,
		interval: 15 * time.Minute,
		queue:    "default",
	}
}

func (w *Refresher) WithInterval(interval time.Duration) *Refresher {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

func (w *Refresher) WithQueue(queue string) *Refresher {
	if queue != "" {
		w.queue = queue
	}
	return w
}

func (w *Refresher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("refresher is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(runCtx).Error("refresher stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *Refresher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Refresher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *Refresher) Run(ctx context.Context) error {
	logger(ctx).Info("refresher started",
		slog.Int("sources", len(w.sources)),
		slog.Duration("interval", w.interval),
	)

	// First pass immediately so the dashboard has data before the first tick.
	w.enqueueAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("refresher stopped")
			return ctx.Err()
		case <-ticker.C:
			w.enqueueAll(ctx)
		}
	}
}

func (w *Refresher) enqueueAll(ctx context.Context) {
	for _, source := range w.sources {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.enqueueOne(ctx, source); err != nil {
			logger(ctx).Error("failed to enqueue refresh",
				slog.String(logx.FieldSource, source),
				logx.Error(err),
			)
		}
	}
}

func (w *Refresher) enqueueOne(ctx context.Context, source string) error {
	task, err := NewRefreshTask(source)
	if err != nil {
		return err
	}

	// One pending refresh per source at a time.
	_, err = w.client.EnqueueContext(ctx, task,
		asynq.Queue(w.queue),
		asynq.TaskID(DatasetID(source)),
		asynq.Retention(time.Minute),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}

	return nil
}
