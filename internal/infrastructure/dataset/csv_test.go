package dataset_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"scorecard/internal/domain/entity"
	"scorecard/internal/domain/value"
	"scorecard/internal/infrastructure/dataset"
)

const sampleCSV = `CustomerID,utilization,income
CUST_001,0.12,45000
CUST_002,0.05,32000
CUST_003,0.20,27000
`

func TestReadCSV(t *testing.T) {
	rq := require.New(t)

	table, err := dataset.ReadCSV(strings.NewReader(sampleCSV), dataset.DefaultIDColumn)
	rq.NoError(err)

	rq.Equal([]string{"CustomerID", "utilization", "income"}, table.Columns)
	rq.Len(table.Rows, 3)
	rq.Equal("CUST_002", table.Rows[1].CustomerID)
	rq.Equal("0.05", table.Rows[1].Cells["utilization"])
	rq.True(table.HasColumn("income"))
	rq.False(table.HasColumn("PD"))
}

func TestReadCSVEmpty(t *testing.T) {
	rq := require.New(t)

	_, err := dataset.ReadCSV(strings.NewReader("CustomerID,PD\n"), dataset.DefaultIDColumn)
	rq.Error(err)
	rq.ErrorContains(err, "no data rows")
}

func TestReadCSVRaggedRow(t *testing.T) {
	rq := require.New(t)

	_, err := dataset.ReadCSV(strings.NewReader("a,b\n1\n"), dataset.DefaultIDColumn)
	rq.Error(err)
}

func TestFeatureValues(t *testing.T) {
	rq := require.New(t)

	row := entity.Row{Cells: map[string]string{"utilization": "0.4", "income": "52000"}}

	values, err := dataset.FeatureValues(row, []string{"utilization", "income"})
	rq.NoError(err)
	rq.InDelta(0.4, values["utilization"], 1e-12)
	rq.InDelta(52000, values["income"], 1e-12)

	_, err = dataset.FeatureValues(row, []string{"utilization", "dti"})
	rq.Error(err)
	rq.ErrorContains(err, `missing feature column "dti"`)

	row.Cells["income"] = "a lot"
	_, err = dataset.FeatureValues(row, []string{"income"})
	rq.Error(err)
	rq.ErrorContains(err, "not numeric")
}

func TestWriteCSVAppendsDerivedColumns(t *testing.T) {
	rq := require.New(t)

	ds := &entity.Dataset{
		Columns: []string{"CustomerID", "utilization"},
		Records: []entity.ScoredRecord{
			{
				CustomerID:    "CUST_001",
				Cells:         map[string]string{"CustomerID": "CUST_001", "utilization": "0.12"},
				PD:            0.5,
				BehaviorScore: 686.44,
				RiskCategory:  value.RiskMedium,
			},
		},
	}

	var buf bytes.Buffer
	rq.NoError(dataset.WriteCSV(&buf, ds))

	rq.Equal(
		"CustomerID,utilization,PD,Behavior_Score,Risk_Category\n"+
			"CUST_001,0.12,0.500000,686.44,Medium Risk\n",
		buf.String(),
	)
}

func TestWriteCSVKeepsExistingPDColumn(t *testing.T) {
	rq := require.New(t)

	ds := &entity.Dataset{
		Columns: []string{"CustomerID", "PD"},
		Records: []entity.ScoredRecord{
			{
				CustomerID:    "CUST_001",
				Cells:         map[string]string{"CustomerID": "CUST_001", "PD": "0.05"},
				PD:            0.05,
				BehaviorScore: 771.4,
				RiskCategory:  value.RiskLow,
			},
		},
	}

	var buf bytes.Buffer
	rq.NoError(dataset.WriteCSV(&buf, ds))

	rq.Equal(
		"CustomerID,PD,Behavior_Score,Risk_Category\n"+
			"CUST_001,0.050000,771.40,Low Risk\n",
		buf.String(),
	)
}
