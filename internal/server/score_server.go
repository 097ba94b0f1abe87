package server

import (
	"fmt"
	"net/http"

	"scorecard/pkg/httpx/reply"
	"scorecard/pkg/httpx/req"
	"scorecard/pkg/rest"
)

type ScoreServer struct {
	scoringService scoringService
}

func NewScoreServer(scoringService scoringService) ScoreServer {
	return ScoreServer{
		scoringService: scoringService,
	}
}

func (s ScoreServer) postV1Score(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ScoreRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	prediction, err := s.scoringService.ScoreOne(ctx, request.PD, request.Features)
	if err != nil {
		return asFailure(fmt.Errorf("scoringService.ScoreOne: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ScoreResponse{
		PD:            prediction.PD,
		BehaviorScore: prediction.BehaviorScore,
		RiskCategory:  prediction.RiskCategory.String(),
	})

	return nil
}

func (s ScoreServer) getV1Scorecard(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	sc := s.scoringService.Scorecard()
	medium, low := sc.Thresholds()

	reply.JSON(ctx, w, http.StatusOK, rest.ScorecardInfo{
		ScoreRef:        sc.ScoreRef(),
		PDO:             sc.PDO(),
		OddsRef:         sc.OddsRef(),
		Offset:          sc.Offset(),
		Factor:          sc.Factor(),
		MediumThreshold: medium,
		LowThreshold:    low,
	})

	return nil
}
