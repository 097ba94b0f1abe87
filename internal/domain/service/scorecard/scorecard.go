// Package scorecard implements the logistic scorecard scaling: a linear
// rescaling of log-odds onto a conventional banking score range, plus the
// discretization of scores into risk categories.
package scorecard

import (
	"math"

	"scorecard/internal/domain"
	"scorecard/internal/domain/value"
	"scorecard/pkg/errcodes"
)

// Calibration constants used when nothing else is configured. OddsRef odds
// at ScoreRef points, PDO points to double the odds.
const (
	DefaultScoreRef = 600
	DefaultPDO      = 20
	DefaultOddsRef  = 20

	DefaultMediumThreshold = 600
	DefaultLowThreshold    = 700
)

// PD is clamped to this open sub-interval before the transform so the
// log-odds stay finite.
const (
	MinPD = 0.001
	MaxPD = 0.999
)

// Scorecard maps a probability of default onto a behavior score. The offset
// and factor are derived once: factor = PDO/ln 2, offset = scoreRef +
// factor*ln(oddsRef). Score is strictly decreasing in PD.
type Scorecard struct {
	scoreRef float64
	pdo      float64
	oddsRef  float64

	offset float64
	factor float64

	mediumThreshold float64
	lowThreshold    float64
}

func New(scoreRef, pdo, oddsRef float64) Scorecard {
	factor := pdo / math.Ln2

	return Scorecard{
		scoreRef:        scoreRef,
		pdo:             pdo,
		oddsRef:         oddsRef,
		offset:          scoreRef + factor*math.Log(oddsRef),
		factor:          factor,
		mediumThreshold: DefaultMediumThreshold,
		lowThreshold:    DefaultLowThreshold,
	}
}

func Default() Scorecard {
	return New(DefaultScoreRef, DefaultPDO, DefaultOddsRef)
}

// WithThresholds overrides the category cutoffs: scores below medium are
// High Risk, scores from medium up to low are Medium Risk, the rest Low
// Risk.
func (s Scorecard) WithThresholds(medium, low float64) (Scorecard, error) {
	if medium >= low {
		return s, domain.NewError(errcodes.InvalidThresholds,
			"medium threshold must be below low threshold")
	}

	s.mediumThreshold = medium
	s.lowThreshold = low

	return s, nil
}

// Score converts a probability of default into a behavior score.
func (s Scorecard) Score(pd float64) float64 {
	pd = math.Max(MinPD, math.Min(MaxPD, pd))
	odds := pd / (1 - pd)

	return s.offset - s.factor*math.Log(odds)
}

// Category buckets a behavior score into its risk tier.
func (s Scorecard) Category(score float64) value.RiskCategory {
	switch {
	case score >= s.lowThreshold:
		return value.RiskLow
	case score >= s.mediumThreshold:
		return value.RiskMedium
	default:
		return value.RiskHigh
	}
}

func (s Scorecard) ScoreRef() float64 { return s.scoreRef }
func (s Scorecard) PDO() float64      { return s.pdo }
func (s Scorecard) OddsRef() float64  { return s.oddsRef }
func (s Scorecard) Offset() float64   { return s.offset }
func (s Scorecard) Factor() float64   { return s.factor }

func (s Scorecard) Thresholds() (medium, low float64) {
	return s.mediumThreshold, s.lowThreshold
}
