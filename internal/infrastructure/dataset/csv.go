// Package dataset reads and writes the tabular CSV format both surfaces
// speak: a customer identifier column plus feature columns on the way in,
// the same table augmented with PD, Behavior_Score and Risk_Category on the
// way out.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"

	"scorecard/internal/domain"
	"scorecard/internal/domain/entity"
	"scorecard/pkg/errcodes"
	"scorecard/pkg/lox"
)

// Output column names, matching the BI script's augmented table.
const (
	ColumnPD           = "PD"
	ColumnScore        = "Behavior_Score"
	ColumnRiskCategory = "Risk_Category"

	DefaultIDColumn = "CustomerID"
)

// Table is a parsed upload before scoring.
type Table struct {
	Columns []string
	Rows    []entity.Row
}

func (t *Table) HasColumn(name string) bool {
	return lo.Contains(t.Columns, name)
}

// ReadCSV parses an uploaded table. The first row is the header; the
// idColumn cell becomes the row's customer identifier when present.
func ReadCSV(r io.Reader, idColumn string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.ValidationError, "failed to read CSV header")
	}

	table := &Table{Columns: header}

	for lineNo := 2; ; lineNo++ {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.WrapError(err, errcodes.ValidationError,
				fmt.Sprintf("failed to read CSV line %d", lineNo))
		}

		row := entity.Row{Cells: make(map[string]string, len(header))}
		for i, name := range header {
			row.Cells[name] = cells[i]
		}
		row.CustomerID = row.Cells[idColumn]

		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, domain.NewError(errcodes.EmptyDataset, "CSV contains no data rows")
	}

	return table, nil
}

// FeatureValues converts the named cells of a row to floats, for model
// inference.
func FeatureValues(row entity.Row, features []string) (map[string]float64, error) {
	values := make(map[string]float64, len(features))

	for _, name := range features {
		cell, ok := row.Cells[name]
		if !ok {
			return nil, domain.NewError(errcodes.MissingColumn,
				fmt.Sprintf("missing feature column %q", name))
		}

		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, domain.WrapError(err, errcodes.ValidationError,
				fmt.Sprintf("feature %q is not numeric", name))
		}

		values[name] = v
	}

	return values, nil
}

// WriteCSV renders a scored dataset back to CSV: the original columns in
// upload order followed by the three derived columns.
func WriteCSV(w io.Writer, ds *entity.Dataset) error {
	writer := csv.NewWriter(w)

	// Uploads that already carry a PD column keep it in place instead of
	// getting a duplicate appended.
	derived := lo.Filter([]string{ColumnPD, ColumnScore, ColumnRiskCategory}, func(name string, _ int) bool {
		return !lo.Contains(ds.Columns, name)
	})

	header := append(append([]string{}, ds.Columns...), derived...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writer.Write header: %w", err)
	}

	for _, record := range ds.Records {
		cells := lox.Map(header, func(name string) string {
			return derivedCell(record, name)
		})

		if err := writer.Write(cells); err != nil {
			return fmt.Errorf("writer.Write row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

func derivedCell(record entity.ScoredRecord, name string) string {
	switch name {
	case ColumnPD:
		return strconv.FormatFloat(record.PD, 'f', 6, 64)
	case ColumnScore:
		return strconv.FormatFloat(record.BehaviorScore, 'f', 2, 64)
	case ColumnRiskCategory:
		return record.RiskCategory.String()
	default:
		return record.Cells[name]
	}
}

// MarshalCSV is WriteCSV into a byte buffer, for HTTP downloads.
func MarshalCSV(ds *entity.Dataset) ([]byte, error) {
	var buf bytes.Buffer

	if err := WriteCSV(&buf, ds); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
