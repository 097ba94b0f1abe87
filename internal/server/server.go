package server

import (
	"context"

	"scorecard/internal/domain/entity"
	"scorecard/internal/domain/service/scorecard"
	"scorecard/internal/infrastructure/dataset"
)

// scoringService is everything the HTTP surface needs from the domain.
type scoringService interface {
	ScoreTable(ctx context.Context, table *dataset.Table, source string) (*entity.Dataset, error)
	Dataset(ctx context.Context, id string) (*entity.Dataset, error)
	ScoreOne(ctx context.Context, pd *float64, features map[string]float64) (entity.Prediction, error)
	Runs(ctx context.Context, limit int) ([]entity.ScoringRun, error)
	Scorecard() scorecard.Scorecard
}

// Server объединяет специфичные HTTP сервера, отвечающие за обработку
// конкретных сущностей.
type Server struct {
	DatasetServer
	ScoreServer
	RunServer
}

func NewServer(
	datasetServer DatasetServer,
	scoreServer ScoreServer,
	runServer RunServer,
) Server {
	return Server{
		DatasetServer: datasetServer,
		ScoreServer:   scoreServer,
		RunServer:     runServer,
	}
}
