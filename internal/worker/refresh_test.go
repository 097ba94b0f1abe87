package worker_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"scorecard/internal/domain/service/scorecard"
	"scorecard/internal/domain/service/scoring"
	"scorecard/internal/worker"
)

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "portfolio.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestRefreshHandler(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := scoring.NewService(scorecard.Default())
	handler := worker.NewRefreshHandler(svc, "")

	source := writeSourceFile(t, "CustomerID,PD\nCUST_001,0.02\nCUST_002,0.97\n")

	task, err := worker.NewRefreshTask(source)
	rq.NoError(err)
	rq.Equal(worker.TaskRefreshDataset, task.Type())

	rq.NoError(handler.Handle(ctx, task))

	ds, err := svc.Dataset(ctx, worker.DatasetID(source))
	rq.NoError(err)
	rq.Equal(2, ds.Summary.Rows)
	rq.Equal(1, ds.Summary.HighRisk)
	rq.Equal(source, ds.Source)

	// A second refresh of the same source replaces the dataset in place.
	rq.NoError(os.WriteFile(source, []byte("CustomerID,PD\nCUST_001,0.02\n"), 0o600))
	rq.NoError(handler.Handle(ctx, task))

	ds, err = svc.Dataset(ctx, worker.DatasetID(source))
	rq.NoError(err)
	rq.Equal(1, ds.Summary.Rows)
}

func TestRefreshHandlerMissingFile(t *testing.T) {
	rq := require.New(t)

	svc := scoring.NewService(scorecard.Default())
	handler := worker.NewRefreshHandler(svc, "")

	task, err := worker.NewRefreshTask(filepath.Join(t.TempDir(), "absent.csv"))
	rq.NoError(err)

	rq.Error(handler.Handle(context.Background(), task))
}

type recordingEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (e *recordingEnqueuer) EnqueueContext(
	_ context.Context,
	task *asynq.Task,
	_ ...asynq.Option,
) (*asynq.TaskInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tasks = append(e.tasks, task)

	return &asynq.TaskInfo{}, nil
}

func (e *recordingEnqueuer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.tasks)
}

func TestRefresherEnqueuesOnStart(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	enqueuer := &recordingEnqueuer{}

	refresher := worker.NewRefresher(enqueuer, []string{"a.csv", "b.csv"}).
		WithInterval(time.Hour)

	rq.NoError(refresher.Start(ctx))
	rq.Error(refresher.Start(ctx), "second start must fail")

	rq.Eventually(func() bool {
		return enqueuer.count() == 2
	}, time.Second, 10*time.Millisecond)

	refresher.Stop()
	rq.False(refresher.IsRunning())
}
