package entity

import (
	"time"

	"scorecard/internal/domain/value"
)

// Row is one customer row as uploaded: an identifier plus raw feature cells
// keyed by column name. Cells stay strings until the model needs them.
type Row struct {
	CustomerID string
	Cells      map[string]string
}

// ScoredRecord is a row after the scoring pass.
type ScoredRecord struct {
	CustomerID    string
	Cells         map[string]string
	PD            float64
	BehaviorScore float64
	RiskCategory  value.RiskCategory
}

// Dataset is one scored upload. Datasets live in memory only, for the
// lifetime of a dashboard session; Columns preserves the upload's column
// order for the CSV export.
type Dataset struct {
	ID        string
	Source    string
	Columns   []string
	Records   []ScoredRecord
	Summary   Summary
	CreatedAt time.Time
}

// Prediction is the result of scoring a single customer.
type Prediction struct {
	PD            float64
	BehaviorScore float64
	RiskCategory  value.RiskCategory
}
