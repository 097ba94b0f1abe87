package entity

import (
	"time"

	"scorecard/internal/domain/value"
)

// ScoringRun is the persisted audit row for one scoring pass: aggregates and
// the constants in force, never the customer records themselves.
type ScoringRun struct {
	ID         string
	Source     string
	Rows       int
	AvgPD      float64
	AvgScore   float64
	Categories map[value.RiskCategory]int
	ScoreRef   float64
	PDO        float64
	OddsRef    float64
	CreatedAt  time.Time
}
