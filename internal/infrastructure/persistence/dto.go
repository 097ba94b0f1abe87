package persistence

import (
	"encoding/json"
	"time"

	"scorecard/internal/domain/entity"
	"scorecard/internal/domain/value"
)

// runSchema maps one scoring_runs row.
type runSchema struct {
	ID         string    `db:"id"`
	Source     string    `db:"source"`
	Rows       int       `db:"rows"`
	AvgPD      float64   `db:"avg_pd"`
	AvgScore   float64   `db:"avg_score"`
	Categories []byte    `db:"categories"`
	ScoreRef   float64   `db:"score_ref"`
	PDO        float64   `db:"pdo"`
	OddsRef    float64   `db:"odds_ref"`
	CreatedAt  time.Time `db:"created_at"`
}

func fromRun(run *entity.ScoringRun) (*runSchema, error) {
	categories, err := json.Marshal(run.Categories)
	if err != nil {
		return nil, err
	}

	return &runSchema{
		ID:         run.ID,
		Source:     run.Source,
		Rows:       run.Rows,
		AvgPD:      run.AvgPD,
		AvgScore:   run.AvgScore,
		Categories: categories,
		ScoreRef:   run.ScoreRef,
		PDO:        run.PDO,
		OddsRef:    run.OddsRef,
		CreatedAt:  run.CreatedAt,
	}, nil
}

func (s *runSchema) toDomain() (*entity.ScoringRun, error) {
	categories := make(map[value.RiskCategory]int)
	if len(s.Categories) > 0 {
		if err := json.Unmarshal(s.Categories, &categories); err != nil {
			return nil, err
		}
	}

	return &entity.ScoringRun{
		ID:         s.ID,
		Source:     s.Source,
		Rows:       s.Rows,
		AvgPD:      s.AvgPD,
		AvgScore:   s.AvgScore,
		Categories: categories,
		ScoreRef:   s.ScoreRef,
		PDO:        s.PDO,
		OddsRef:    s.OddsRef,
		CreatedAt:  s.CreatedAt,
	}, nil
}
