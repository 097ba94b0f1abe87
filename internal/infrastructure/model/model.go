// Package model loads the serialized classifier artifact and runs inference.
// The artifact is the JSON export of the trained logistic regression:
// feature names in training order, coefficients, intercept, and the fitted
// standard scaler when one was used.
package model

import (
	"fmt"
	"math"
	"os"

	jsoniter "github.com/json-iterator/go"

	"scorecard/internal/domain"
	"scorecard/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type Artifact struct {
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Scaler       *Scaler   `json:"scaler,omitempty"`
}

// Scaler holds the fitted standard scaler applied to inputs before
// inference, mirroring the optional scaler artifact next to the model file.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type LogisticModel struct {
	artifact Artifact
	path     string
}

// Load reads the model artifact. A missing file is a fatal condition for
// callers: the BI script refuses to score anything without the model.
func Load(path string) (*LogisticModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model file not found: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if err := artifact.validate(); err != nil {
		return nil, err
	}

	return &LogisticModel{artifact: artifact, path: path}, nil
}

// LoadScaler reads a standalone scaler artifact, for the two-file layout
// where the fitted scaler ships next to the model file.
func LoadScaler(path string) (*Scaler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scaler file not found: %w", err)
	}

	var scaler Scaler
	if err := json.Unmarshal(raw, &scaler); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return &scaler, nil
}

// WithScaler attaches a separately loaded scaler, replacing an embedded one
// if the artifact carried any.
func (m *LogisticModel) WithScaler(scaler *Scaler) (*LogisticModel, error) {
	m.artifact.Scaler = scaler

	if err := m.artifact.validate(); err != nil {
		return nil, err
	}

	return m, nil
}

func (a Artifact) validate() error {
	if len(a.Features) == 0 {
		return domain.NewError(errcodes.ModelNotLoaded, "artifact has no features")
	}

	if len(a.Coefficients) != len(a.Features) {
		return domain.NewError(errcodes.ModelNotLoaded,
			fmt.Sprintf("artifact has %d coefficients for %d features",
				len(a.Coefficients), len(a.Features)))
	}

	if a.Scaler != nil {
		if len(a.Scaler.Mean) != len(a.Features) || len(a.Scaler.Scale) != len(a.Features) {
			return domain.NewError(errcodes.ModelNotLoaded, "scaler shape does not match features")
		}

		for i, s := range a.Scaler.Scale {
			if s == 0 {
				return domain.NewError(errcodes.ModelNotLoaded,
					fmt.Sprintf("scaler scale is zero for feature %q", a.Features[i]))
			}
		}
	}

	return nil
}

// Features returns the model's input columns in training order. Input rows
// must supply every one of them.
func (m *LogisticModel) Features() []string {
	return m.artifact.Features
}

func (m *LogisticModel) Path() string {
	return m.path
}

// PredictProba returns the probability of default for one customer.
func (m *LogisticModel) PredictProba(features map[string]float64) (float64, error) {
	z := m.artifact.Intercept

	for i, name := range m.artifact.Features {
		x, ok := features[name]
		if !ok {
			return 0, domain.NewError(errcodes.MissingColumn,
				fmt.Sprintf("missing model feature %q", name))
		}

		if m.artifact.Scaler != nil {
			x = (x - m.artifact.Scaler.Mean[i]) / m.artifact.Scaler.Scale[i]
		}

		z += m.artifact.Coefficients[i] * x
	}

	return 1 / (1 + math.Exp(-z)), nil
}
