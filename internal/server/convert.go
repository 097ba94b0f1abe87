package server

import (
	"time"

	"scorecard/internal/domain/entity"
	"scorecard/pkg/lox"
	"scorecard/pkg/rest"
)

func newRESTDatasetCreated(ds *entity.Dataset) rest.DatasetCreated {
	return rest.DatasetCreated{
		ID:      ds.ID,
		Summary: newRESTSummary(ds.Summary),
	}
}

func newRESTSummary(summary entity.Summary) rest.Summary {
	categories := make(map[string]int, len(summary.Categories))
	for category, count := range summary.Categories {
		categories[category.String()] = count
	}

	return rest.Summary{
		Rows:           summary.Rows,
		AvgPD:          summary.AvgPD,
		AvgScore:       summary.AvgScore,
		HighRisk:       summary.HighRisk,
		Categories:     categories,
		PDHistogram:    lox.Map(summary.PDHistogram, newRESTHistogramBin),
		ScoreHistogram: lox.Map(summary.ScoreHistogram, newRESTHistogramBin),
	}
}

func newRESTHistogramBin(bin entity.HistogramBin) rest.HistogramBin {
	return rest.HistogramBin{
		From:  bin.From,
		To:    bin.To,
		Count: bin.Count,
	}
}

func newRESTRecordsPage(records []entity.ScoredRecord, total, limit, offset int) rest.RecordsPage {
	return rest.RecordsPage{
		Records: lox.Map(records, newRESTRecord),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
}

func newRESTRecord(record entity.ScoredRecord) rest.Record {
	return rest.Record{
		CustomerID:    record.CustomerID,
		Features:      record.Cells,
		PD:            record.PD,
		BehaviorScore: record.BehaviorScore,
		RiskCategory:  record.RiskCategory.String(),
	}
}

func newRESTRun(run entity.ScoringRun) rest.Run {
	categories := make(map[string]int, len(run.Categories))
	for category, count := range run.Categories {
		categories[category.String()] = count
	}

	return rest.Run{
		ID:         run.ID,
		Source:     run.Source,
		Rows:       run.Rows,
		AvgPD:      run.AvgPD,
		AvgScore:   run.AvgScore,
		Categories: categories,
		CreatedAt:  run.CreatedAt.Format(time.RFC3339),
	}
}
