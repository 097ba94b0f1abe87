package server

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scorecard/internal/domain/entity"
	"scorecard/internal/infrastructure/dataset"
	"scorecard/pkg/httpx/reply"
)

const (
	maxUploadBytes = 32 << 20

	defaultRecordsLimit = 50
	maxRecordsLimit     = 1000

	exportFileName = "behavior_scorecard_output.csv"
)

type DatasetServer struct {
	scoringService scoringService
	idColumn       string
}

func NewDatasetServer(scoringService scoringService, idColumn string) DatasetServer {
	if idColumn == "" {
		idColumn = dataset.DefaultIDColumn
	}

	return DatasetServer{
		scoringService: scoringService,
		idColumn:       idColumn,
	}
}

func (s DatasetServer) postV1Dataset(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		return asFailure(fmt.Errorf("r.FormFile: %w", err))
	}
	defer file.Close()

	table, err := dataset.ReadCSV(file, s.idColumn)
	if err != nil {
		return asFailure(fmt.Errorf("dataset.ReadCSV: %w", err))
	}

	ds, err := s.scoringService.ScoreTable(ctx, table, header.Filename)
	if err != nil {
		return asFailure(fmt.Errorf("scoringService.ScoreTable: %w", err))
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTDatasetCreated(ds))

	return nil
}

func (s DatasetServer) getV1Dataset(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	ds, err := s.scoringService.Dataset(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return asFailure(fmt.Errorf("scoringService.Dataset: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSummary(ds.Summary))

	return nil
}

func (s DatasetServer) getV1DatasetRecords(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	ds, err := s.scoringService.Dataset(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return asFailure(fmt.Errorf("scoringService.Dataset: %w", err))
	}

	limit := queryInt(r, "limit", defaultRecordsLimit, maxRecordsLimit)
	offset := queryInt(r, "offset", 0, len(ds.Records))

	// Riskiest first, the dashboard's "top high risk" table ordering.
	records := make([]entity.ScoredRecord, len(ds.Records))
	copy(records, ds.Records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PD > records[j].PD
	})

	if offset > len(records) {
		offset = len(records)
	}

	end := offset + limit
	if end > len(records) {
		end = len(records)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRecordsPage(records[offset:end], len(ds.Records), limit, offset))

	return nil
}

func (s DatasetServer) getV1DatasetExport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	ds, err := s.scoringService.Dataset(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return asFailure(fmt.Errorf("scoringService.Dataset: %w", err))
	}

	out, err := dataset.MarshalCSV(ds)
	if err != nil {
		return asFailure(fmt.Errorf("dataset.MarshalCSV: %w", err))
	}

	reply.CSV(ctx, w, exportFileName, out)

	return nil
}

func queryInt(r *http.Request, name string, fallback, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}

	if max > 0 && v > max {
		return max
	}

	return v
}
