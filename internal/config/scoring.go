package config

import "time"

// Scoring carries the scorecard calibration. The defaults reproduce the BI
// connector script: 600 points at 20:1 odds, 20 points to double the odds,
// categories cut at 600/700.
type Scoring struct {
	ScoreRef        float64       `env:"SCORE_REF" envDefault:"600"`
	PDO             float64       `env:"PDO" envDefault:"20"`
	OddsRef         float64       `env:"ODDS_REF" envDefault:"20"`
	MediumThreshold float64       `env:"RISK_MEDIUM_THRESHOLD" envDefault:"600"`
	LowThreshold    float64       `env:"RISK_LOW_THRESHOLD" envDefault:"700"`
	IDColumn        string        `env:"ID_COLUMN" envDefault:"CustomerID"`
	DatasetTTL      time.Duration `env:"DATASET_TTL" envDefault:"30m"`
}
