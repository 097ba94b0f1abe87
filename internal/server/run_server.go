package server

import (
	"fmt"
	"net/http"

	"scorecard/pkg/httpx/reply"
	"scorecard/pkg/lox"
)

const defaultRunsLimit = 20

type RunServer struct {
	scoringService scoringService
}

func NewRunServer(scoringService scoringService) RunServer {
	return RunServer{
		scoringService: scoringService,
	}
}

func (s RunServer) getV1Runs(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit := queryInt(r, "limit", defaultRunsLimit, 100)

	runs, err := s.scoringService.Runs(ctx, limit)
	if err != nil {
		return asFailure(fmt.Errorf("scoringService.Runs: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(runs, newRESTRun))

	return nil
}
