package scorecard_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"scorecard/internal/domain/service/scorecard"
	"scorecard/internal/domain/value"
	"scorecard/pkg/tests"
)

func TestDefaultConstants(t *testing.T) {
	rq := require.New(t)

	sc := scorecard.Default()

	// factor = 20/ln 2, offset = 600 + factor*ln 20.
	rq.InDelta(28.85390081777927, sc.Factor(), 1e-12)
	rq.InDelta(686.4385618977473, sc.Offset(), 1e-12)
}

func TestScoreAtEvenOdds(t *testing.T) {
	rq := require.New(t)

	sc := scorecard.Default()

	// PD=0.5 means odds=1, so the score is exactly the offset.
	rq.InDelta(686.4385618977473, sc.Score(0.5), 1e-9)
	rq.Equal(value.RiskMedium, sc.Category(sc.Score(0.5)))
}

func TestScoreRefAtReferenceOdds(t *testing.T) {
	rq := require.New(t)

	// With reference odds of 1, even odds map exactly onto the
	// reference score, whatever the PDO.
	for _, pdo := range []float64{10, 20, 40} {
		sc := scorecard.New(600, pdo, 1)
		rq.InDelta(600, sc.Score(0.5), 1e-9)
	}
}

func TestScoreMonotonicallyDecreasing(t *testing.T) {
	rq := require.New(t)

	sc := scorecard.Default()

	prev := sc.Score(0.001)
	for pd := 0.002; pd < 0.999; pd += 0.001 {
		score := sc.Score(pd)
		rq.Less(score, prev, "score must strictly decrease, pd=%f", pd)
		prev = score
	}
}

func TestScoreMonotonicRandomPairs(t *testing.T) {
	rq := require.New(t)

	sc := scorecard.Default()
	random := tests.NewRandomizer()

	for i := 0; i < 1000; i++ {
		a := 0.001 + random.Float64()*0.997
		b := 0.001 + random.Float64()*0.997
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}

		rq.Greater(sc.Score(a), sc.Score(b))
	}
}

func TestScoreClampsPD(t *testing.T) {
	rq := require.New(t)

	sc := scorecard.Default()

	rq.False(math.IsInf(sc.Score(0), 0))
	rq.False(math.IsInf(sc.Score(1), 0))
	rq.InDelta(sc.Score(0.001), sc.Score(0), 1e-12)
	rq.InDelta(sc.Score(0.999), sc.Score(1), 1e-12)
	rq.InDelta(sc.Score(0.001), sc.Score(-5), 1e-12)
	rq.InDelta(sc.Score(0.999), sc.Score(42), 1e-12)
}

func TestCategoryPartition(t *testing.T) {
	rq := require.New(t)

	sc := scorecard.Default()

	testCases := []struct {
		score float64
		want  value.RiskCategory
	}{
		{score: 300, want: value.RiskHigh},
		{score: 599.999, want: value.RiskHigh},
		{score: 600, want: value.RiskMedium},
		{score: 699.999, want: value.RiskMedium},
		{score: 700, want: value.RiskLow},
		{score: 900, want: value.RiskLow},
	}

	for _, tc := range testCases {
		rq.Equal(tc.want, sc.Category(tc.score), "score=%f", tc.score)
	}

	// The buckets cover the whole score range with no gaps: every score
	// lands in exactly one category.
	for score := 300.0; score <= 900.0; score += 0.5 {
		_, err := value.ParseRiskCategory(sc.Category(score).String())
		rq.NoError(err)
	}
}

func TestWithThresholds(t *testing.T) {
	rq := require.New(t)

	// The dashboard variant used 580/700.
	sc, err := scorecard.Default().WithThresholds(580, 700)
	rq.NoError(err)

	rq.Equal(value.RiskHigh, sc.Category(579))
	rq.Equal(value.RiskMedium, sc.Category(580))
	rq.Equal(value.RiskMedium, sc.Category(699))
	rq.Equal(value.RiskLow, sc.Category(700))

	_, err = scorecard.Default().WithThresholds(700, 600)
	rq.Error(err)

	_, err = scorecard.Default().WithThresholds(650, 650)
	rq.Error(err)
}
