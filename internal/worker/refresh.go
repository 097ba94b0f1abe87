package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"scorecard/internal/domain/entity"
	"scorecard/internal/infrastructure/dataset"
	"scorecard/pkg/logx"
)

// TaskRefreshDataset re-reads a CSV source from disk and rescores it under a
// stable dataset id, so the dashboard always serves the latest file contents.
const TaskRefreshDataset = "dataset:refresh"

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type refreshPayload struct {
	Source string `json:"source"`
}

func NewRefreshTask(source string) (*asynq.Task, error) {
	payload, err := json.Marshal(refreshPayload{Source: source})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TaskRefreshDataset, payload), nil
}

type scoringService interface {
	ScoreTableAs(ctx context.Context, id string, table *dataset.Table, source string) (*entity.Dataset, error)
}

type RefreshHandler struct {
	scoringService scoringService
	idColumn       string
}

func NewRefreshHandler(scoringService scoringService, idColumn string) RefreshHandler {
	if idColumn == "" {
		idColumn = dataset.DefaultIDColumn
	}

	return RefreshHandler{
		scoringService: scoringService,
		idColumn:       idColumn,
	}
}

func (h RefreshHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload refreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return h.Refresh(ctx, payload.Source)
}

// Refresh scores the file at source and caches the result under a dataset id
// derived from the path, replacing the previous refresh of the same source.
func (h RefreshHandler) Refresh(ctx context.Context, source string) error {
	file, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("os.Open: %w", err)
	}
	defer file.Close()

	table, err := dataset.ReadCSV(file, h.idColumn)
	if err != nil {
		return fmt.Errorf("dataset.ReadCSV: %w", err)
	}

	ds, err := h.scoringService.ScoreTableAs(ctx, DatasetID(source), table, source)
	if err != nil {
		return fmt.Errorf("scoringService.ScoreTableAs: %w", err)
	}

	logger(ctx).Info(
		"dataset refreshed",
		slog.String(logx.FieldDatasetID, ds.ID),
		slog.String(logx.FieldSource, source),
		slog.Int(logx.FieldRowCount, ds.Summary.Rows),
	)

	return nil
}

// DatasetID is the stable cache key for a refreshed source file.
func DatasetID(source string) string {
	return "source:" + source
}
