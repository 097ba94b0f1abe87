package entity

import "scorecard/internal/domain/value"

// Summary holds the aggregates the dashboard KPI cards and charts are
// rendered from.
type Summary struct {
	Rows           int
	AvgPD          float64
	AvgScore       float64
	HighRisk       int
	Categories     map[value.RiskCategory]int
	PDHistogram    []HistogramBin
	ScoreHistogram []HistogramBin
}

// HistogramBin is one fixed-width bin; To of the last bin is inclusive.
type HistogramBin struct {
	From  float64
	To    float64
	Count int
}
