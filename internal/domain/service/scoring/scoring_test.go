package scoring_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scorecard/internal/domain/entity"
	"scorecard/internal/domain/service/scorecard"
	"scorecard/internal/domain/service/scoring"
	"scorecard/internal/domain/value"
	"scorecard/internal/infrastructure/dataset"
)

const pdCSV = `CustomerID,PD
CUST_001,0.02
CUST_002,0.10
CUST_003,0.50
CUST_004,0.97
`

type stubModel struct {
	features []string
	pd       float64
}

func (m stubModel) Features() []string { return m.features }

func (m stubModel) PredictProba(map[string]float64) (float64, error) { return m.pd, nil }

type recordingRuns struct {
	created []*entity.ScoringRun
}

func (r *recordingRuns) Create(_ context.Context, run *entity.ScoringRun) error {
	r.created = append(r.created, run)
	return nil
}

func (r *recordingRuns) List(context.Context, int) ([]entity.ScoringRun, error) {
	out := make([]entity.ScoringRun, 0, len(r.created))
	for _, run := range r.created {
		out = append(out, *run)
	}
	return out, nil
}

func readTable(t *testing.T, csv string) *dataset.Table {
	t.Helper()

	table, err := dataset.ReadCSV(strings.NewReader(csv), dataset.DefaultIDColumn)
	require.NoError(t, err)

	return table
}

func TestScoreTableFromPDColumn(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := scoring.NewService(scorecard.Default())

	ds, err := svc.ScoreTable(ctx, readTable(t, pdCSV), "upload")
	rq.NoError(err)

	rq.Len(ds.Records, 4)
	rq.Equal(4, ds.Summary.Rows)
	rq.InDelta(0.3975, ds.Summary.AvgPD, 1e-9)

	// Scores must decrease as PD grows.
	for i := 1; i < len(ds.Records); i++ {
		rq.Less(ds.Records[i].BehaviorScore, ds.Records[i-1].BehaviorScore)
	}

	// PD=0.02 at default constants: 686.44 - 28.85*ln(0.02/0.98) ≈ 798.7.
	rq.InDelta(798.73, ds.Records[0].BehaviorScore, 0.01)
	rq.Equal(value.RiskLow, ds.Records[0].RiskCategory)

	// PD=0.97 scores below 600.
	rq.Equal(value.RiskHigh, ds.Records[3].RiskCategory)
	rq.Equal(1, ds.Summary.HighRisk)

	// All buckets are present even when empty, so charts keep their shape.
	rq.Len(ds.Summary.Categories, 3)
	for _, category := range value.Categories() {
		rq.Contains(ds.Summary.Categories, category)
	}

	total := 0
	for _, bin := range ds.Summary.PDHistogram {
		total += bin.Count
	}
	rq.Equal(4, total)

	// Cached under its ID for the dashboard session.
	got, err := svc.Dataset(ctx, ds.ID)
	rq.NoError(err)
	rq.Equal(ds.ID, got.ID)
}

func TestScoreTableWithoutPDColumnNeedsModel(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := scoring.NewService(scorecard.Default())

	_, err := svc.ScoreTable(ctx, readTable(t, "CustomerID,income\nCUST_001,45000\n"), "upload")
	rq.Error(err)
	rq.ErrorContains(err, `must contain a "PD" column`)
}

func TestScoreTableThroughModel(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := scoring.NewService(scorecard.Default()).
		WithModel(stubModel{features: []string{"income"}, pd: 0.5})

	ds, err := svc.ScoreTable(ctx, readTable(t, "CustomerID,income\nCUST_001,45000\n"), "upload")
	rq.NoError(err)
	rq.InDelta(0.5, ds.Records[0].PD, 1e-12)
	rq.InDelta(686.4386, ds.Records[0].BehaviorScore, 1e-3)
	rq.Equal(value.RiskMedium, ds.Records[0].RiskCategory)

	// Model feature missing from the upload aborts the pass.
	_, err = svc.ScoreTable(ctx, readTable(t, "CustomerID,age\nCUST_001,44\n"), "upload")
	rq.Error(err)
	rq.ErrorContains(err, `missing feature column "income"`)
}

func TestScoreTableInvalidPD(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := scoring.NewService(scorecard.Default())

	_, err := svc.ScoreTable(ctx, readTable(t, "CustomerID,PD\nCUST_001,1.7\n"), "upload")
	rq.Error(err)
	rq.ErrorContains(err, "row 1: invalid PD")

	_, err = svc.ScoreTable(ctx, readTable(t, "CustomerID,PD\nCUST_001,soon\n"), "upload")
	rq.Error(err)
}

func TestScoreTableAsReplacesDataset(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := scoring.NewService(scorecard.Default())

	first, err := svc.ScoreTableAs(ctx, "source:daily", readTable(t, pdCSV), "daily.csv")
	rq.NoError(err)
	rq.Equal(4, first.Summary.Rows)

	second, err := svc.ScoreTableAs(ctx, "source:daily", readTable(t, "CustomerID,PD\nCUST_009,0.3\n"), "daily.csv")
	rq.NoError(err)
	rq.Equal(1, second.Summary.Rows)

	// Single-category dataset still reports zero counts for the others.
	rq.Len(second.Summary.Categories, 3)
	rq.Equal(0, second.Summary.Categories[value.RiskHigh])

	got, err := svc.Dataset(ctx, "source:daily")
	rq.NoError(err)
	rq.Equal(1, got.Summary.Rows)
}

func TestDatasetExpires(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := scoring.NewService(scorecard.Default()).WithDatasetTTL(10 * time.Millisecond)

	ds, err := svc.ScoreTable(ctx, readTable(t, pdCSV), "upload")
	rq.NoError(err)

	time.Sleep(30 * time.Millisecond)

	_, err = svc.Dataset(ctx, ds.ID)
	rq.Error(err)
	rq.ErrorContains(err, "not found or expired")
}

func TestScoreOne(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := scoring.NewService(scorecard.Default()).
		WithModel(stubModel{features: []string{"income"}, pd: 0.25})

	pd := 0.5
	prediction, err := svc.ScoreOne(ctx, &pd, nil)
	rq.NoError(err)
	rq.InDelta(686.4386, prediction.BehaviorScore, 1e-3)
	rq.Equal(value.RiskMedium, prediction.RiskCategory)

	prediction, err = svc.ScoreOne(ctx, nil, map[string]float64{"income": 45000})
	rq.NoError(err)
	rq.InDelta(0.25, prediction.PD, 1e-12)

	_, err = svc.ScoreOne(ctx, nil, nil)
	rq.Error(err)

	_, err = svc.ScoreOne(ctx, &pd, map[string]float64{"income": 1})
	rq.Error(err)

	bare := scoring.NewService(scorecard.Default())
	_, err = bare.ScoreOne(ctx, nil, map[string]float64{"income": 1})
	rq.Error(err)
	rq.ErrorContains(err, "requires a model artifact")
}

func TestRunAudit(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	runs := &recordingRuns{}
	svc := scoring.NewService(scorecard.Default()).WithRunRepository(runs)

	ds, err := svc.ScoreTable(ctx, readTable(t, pdCSV), "upload")
	rq.NoError(err)

	rq.Len(runs.created, 1)
	rq.Equal(ds.ID, runs.created[0].ID)
	rq.Equal(4, runs.created[0].Rows)
	rq.InDelta(600, runs.created[0].ScoreRef, 1e-12)

	listed, err := svc.Runs(ctx, 10)
	rq.NoError(err)
	rq.Len(listed, 1)

	bare := scoring.NewService(scorecard.Default())
	_, err = bare.Runs(ctx, 10)
	rq.Error(err)
	rq.ErrorContains(err, "not configured")
}
