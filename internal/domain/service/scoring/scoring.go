// Package scoring is the row-scoring pass: PD per row (from the model or
// from an uploaded PD column), behavior score and risk category per PD, and
// the aggregates the dashboard renders. Scored datasets are held in a TTL
// cache only; nothing row-level is persisted.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/xid"

	"scorecard/internal/domain"
	"scorecard/internal/domain/entity"
	"scorecard/internal/domain/service/scorecard"
	"scorecard/internal/domain/value"
	"scorecard/internal/infrastructure/dataset"
	"scorecard/pkg/errcodes"
	"scorecard/pkg/logx"
)

const (
	defaultDatasetTTL = 30 * time.Minute

	pdHistogramBins    = 10
	scoreHistogramBins = 10
	scoreRangeMin      = 300
	scoreRangeMax      = 900
)

type Model interface {
	Features() []string
	PredictProba(features map[string]float64) (float64, error)
}

type RunRepository interface {
	Create(ctx context.Context, run *entity.ScoringRun) error
	List(ctx context.Context, limit int) ([]entity.ScoringRun, error)
}

type Metrics interface {
	ObserveRow(source, category string, pd, score float64)
}

type Service struct {
	scorecard scorecard.Scorecard
	model     Model
	runs      RunRepository
	metrics   Metrics
	datasets  *cache.Cache
}

func NewService(sc scorecard.Scorecard) *Service {
	return &Service{
		scorecard: sc,
		datasets:  cache.New(defaultDatasetTTL, defaultDatasetTTL/2),
	}
}

func (s *Service) WithModel(model Model) *Service {
	s.model = model
	return s
}

func (s *Service) WithRunRepository(runs RunRepository) *Service {
	s.runs = runs
	return s
}

func (s *Service) WithMetrics(metrics Metrics) *Service {
	s.metrics = metrics
	return s
}

func (s *Service) WithDatasetTTL(ttl time.Duration) *Service {
	s.datasets = cache.New(ttl, ttl/2)
	return s
}

func (s *Service) Scorecard() scorecard.Scorecard {
	return s.scorecard
}

// ModelReady reports whether feature-based scoring is available.
func (s *Service) ModelReady() bool {
	return s.model != nil
}

// ScoreTable scores an upload and caches it under a fresh dataset ID.
func (s *Service) ScoreTable(ctx context.Context, table *dataset.Table, source string) (*entity.Dataset, error) {
	return s.ScoreTableAs(ctx, xid.New().String(), table, source)
}

// ScoreTableAs scores under a caller-chosen ID; the refresh worker uses a
// stable key per source so the dashboard always sees the latest pass.
func (s *Service) ScoreTableAs(ctx context.Context, id string, table *dataset.Table, source string) (*entity.Dataset, error) {
	records, err := s.scoreRows(table, source)
	if err != nil {
		return nil, err
	}

	ds := &entity.Dataset{
		ID:        id,
		Source:    source,
		Columns:   table.Columns,
		Records:   records,
		Summary:   summarize(records),
		CreatedAt: time.Now(),
	}

	s.datasets.SetDefault(ds.ID, ds)

	s.auditRun(ctx, ds)

	logger(ctx).Info("dataset scored",
		slog.String(logx.FieldDatasetID, ds.ID),
		slog.String(logx.FieldSource, source),
		slog.Int(logx.FieldRowCount, ds.Summary.Rows),
		slog.Float64("avg-pd", ds.Summary.AvgPD),
	)

	return ds, nil
}

// Dataset returns a cached dataset or DatasetNotFound after it expired.
func (s *Service) Dataset(_ context.Context, id string) (*entity.Dataset, error) {
	cached, ok := s.datasets.Get(id)
	if !ok {
		return nil, domain.NewError(errcodes.DatasetNotFound, "dataset not found or expired")
	}

	return cached.(*entity.Dataset), nil
}

// ScoreOne is the single-customer prediction behind the dashboard's risk
// predictor form: either a known PD, or a feature map run through the model.
func (s *Service) ScoreOne(_ context.Context, pd *float64, features map[string]float64) (entity.Prediction, error) {
	switch {
	case pd != nil && len(features) > 0:
		return entity.Prediction{}, domain.NewError(errcodes.InvalidScoreRequest,
			"provide either pd or features, not both")

	case pd != nil:
		return s.predict(*pd), nil

	case len(features) > 0:
		if s.model == nil {
			return entity.Prediction{}, domain.NewError(errcodes.ModelNotLoaded,
				"feature scoring requires a model artifact")
		}

		p, err := s.model.PredictProba(features)
		if err != nil {
			return entity.Prediction{}, err
		}

		return s.predict(p), nil

	default:
		return entity.Prediction{}, domain.NewError(errcodes.InvalidScoreRequest,
			"provide pd or features")
	}
}

// Runs lists persisted run audits, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]entity.ScoringRun, error) {
	if s.runs == nil {
		return nil, domain.NewError(errcodes.RunStoreDisabled, "run audit store is not configured")
	}

	return s.runs.List(ctx, limit)
}

func (s *Service) predict(pd float64) entity.Prediction {
	score := s.scorecard.Score(pd)

	return entity.Prediction{
		PD:            pd,
		BehaviorScore: score,
		RiskCategory:  s.scorecard.Category(score),
	}
}

func (s *Service) scoreRows(table *dataset.Table, source string) ([]entity.ScoredRecord, error) {
	hasPD := table.HasColumn(dataset.ColumnPD)

	if !hasPD && s.model == nil {
		return nil, domain.NewError(errcodes.MissingColumn,
			fmt.Sprintf("CSV must contain a %q column", dataset.ColumnPD))
	}

	records := make([]entity.ScoredRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		var (
			pd  float64
			err error
		)

		if hasPD {
			pd, err = parsePD(row.Cells[dataset.ColumnPD])
			if err != nil {
				return nil, domain.WrapError(err, errcodes.InvalidPD,
					fmt.Sprintf("row %d: invalid PD", i+1))
			}
		} else {
			features, err := dataset.FeatureValues(row, s.model.Features())
			if err != nil {
				return nil, err
			}

			pd, err = s.model.PredictProba(features)
			if err != nil {
				return nil, err
			}
		}

		prediction := s.predict(pd)

		if s.metrics != nil {
			s.metrics.ObserveRow(source, prediction.RiskCategory.String(), prediction.PD, prediction.BehaviorScore)
		}

		records = append(records, entity.ScoredRecord{
			CustomerID:    row.CustomerID,
			Cells:         row.Cells,
			PD:            prediction.PD,
			BehaviorScore: prediction.BehaviorScore,
			RiskCategory:  prediction.RiskCategory,
		})
	}

	return records, nil
}

// auditRun stores the aggregate audit row. Audit failures are logged, never
// allowed to fail the scoring pass itself.
func (s *Service) auditRun(ctx context.Context, ds *entity.Dataset) {
	if s.runs == nil {
		return
	}

	run := &entity.ScoringRun{
		ID:         ds.ID,
		Source:     ds.Source,
		Rows:       ds.Summary.Rows,
		AvgPD:      ds.Summary.AvgPD,
		AvgScore:   ds.Summary.AvgScore,
		Categories: ds.Summary.Categories,
		ScoreRef:   s.scorecard.ScoreRef(),
		PDO:        s.scorecard.PDO(),
		OddsRef:    s.scorecard.OddsRef(),
		CreatedAt:  ds.CreatedAt,
	}

	if err := s.runs.Create(ctx, run); err != nil {
		logger(ctx).Error("failed to audit scoring run",
			slog.String(logx.FieldRunID, run.ID),
			logx.Error(err),
		)
	}
}

func parsePD(cell string) (float64, error) {
	pd, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}

	if pd < 0 || pd > 1 {
		return 0, fmt.Errorf("PD %f outside [0,1]", pd)
	}

	return pd, nil
}

func summarize(records []entity.ScoredRecord) entity.Summary {
	summary := entity.Summary{
		Rows:           len(records),
		Categories:     make(map[value.RiskCategory]int, 3),
		PDHistogram:    newHistogram(0, 1, pdHistogramBins),
		ScoreHistogram: newHistogram(scoreRangeMin, scoreRangeMax, scoreHistogramBins),
	}

	// Every bucket shows up in the KPI cards, zero counts included.
	for _, category := range value.Categories() {
		summary.Categories[category] = 0
	}

	var sumPD, sumScore float64

	for _, record := range records {
		sumPD += record.PD
		sumScore += record.BehaviorScore
		summary.Categories[record.RiskCategory]++

		if record.RiskCategory == value.RiskHigh {
			summary.HighRisk++
		}

		observe(summary.PDHistogram, record.PD)
		observe(summary.ScoreHistogram, record.BehaviorScore)
	}

	if summary.Rows > 0 {
		summary.AvgPD = sumPD / float64(summary.Rows)
		summary.AvgScore = sumScore / float64(summary.Rows)
	}

	return summary
}

func newHistogram(min, max float64, bins int) []entity.HistogramBin {
	width := (max - min) / float64(bins)

	histogram := make([]entity.HistogramBin, bins)
	for i := range histogram {
		histogram[i] = entity.HistogramBin{
			From: min + float64(i)*width,
			To:   min + float64(i+1)*width,
		}
	}

	return histogram
}

// observe drops a value into its bin; out-of-range values land in the edge
// bins so off-scale scores still show up on the chart.
func observe(histogram []entity.HistogramBin, v float64) {
	for i := range histogram {
		last := i == len(histogram)-1

		if v < histogram[i].To || last {
			if v >= histogram[i].From || i == 0 {
				histogram[i].Count++
				return
			}
		}
	}
}
