// Command score is the batch counterpart of the dashboard: it reads a
// portfolio CSV, attaches PD, Behavior_Score and Risk_Category to every row
// and writes the augmented table back out.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	"scorecard/internal/domain/service/scorecard"
	"scorecard/internal/domain/service/scoring"
	"scorecard/internal/infrastructure/dataset"
	"scorecard/internal/infrastructure/model"
)

var version = "dev" //nolint:gochecknoglobals // stamped via -ldflags

var (
	inputFlag = &cli.StringFlag{ //nolint:gochecknoglobals
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Path to the portfolio CSV",
		Required: true,
	}

	outputFlag = &cli.StringFlag{ //nolint:gochecknoglobals
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Path of the augmented CSV to write",
		Value:   "behavior_scorecard_output.csv",
	}

	modelFlag = &cli.StringFlag{ //nolint:gochecknoglobals
		Name:  "model",
		Usage: "Path to the model artifact, required when the input has no PD column",
	}

	scalerFlag = &cli.StringFlag{ //nolint:gochecknoglobals
		Name:  "scaler",
		Usage: "Path to a standalone scaler artifact applied before inference",
	}

	idColumnFlag = &cli.StringFlag{ //nolint:gochecknoglobals
		Name:  "id-column",
		Usage: "Name of the customer id column",
		Value: dataset.DefaultIDColumn,
	}

	scoreRefFlag = &cli.Float64Flag{ //nolint:gochecknoglobals
		Name:  "score-ref",
		Usage: "Score anchored at the reference odds",
		Value: scorecard.DefaultScoreRef,
	}

	pdoFlag = &cli.Float64Flag{ //nolint:gochecknoglobals
		Name:  "pdo",
		Usage: "Points to double the odds",
		Value: scorecard.DefaultPDO,
	}

	oddsFlag = &cli.Float64Flag{ //nolint:gochecknoglobals
		Name:  "odds",
		Usage: "Good:bad odds at the reference score",
		Value: scorecard.DefaultOddsRef,
	}

	mediumFlag = &cli.Float64Flag{ //nolint:gochecknoglobals
		Name:  "medium-threshold",
		Usage: "Scores below this are High Risk",
		Value: scorecard.DefaultMediumThreshold,
	}

	lowFlag = &cli.Float64Flag{ //nolint:gochecknoglobals
		Name:  "low-threshold",
		Usage: "Scores at or above this are Low Risk",
		Value: scorecard.DefaultLowThreshold,
	}
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, nil)))

	app := &cli.App{ //nolint:exhaustruct
		Name:    "score",
		Version: version,
		Usage:   "Scores a portfolio CSV with the behavior scorecard",
		Flags: []cli.Flag{
			inputFlag,
			outputFlag,
			modelFlag,
			scalerFlag,
			idColumnFlag,
			scoreRefFlag,
			pdoFlag,
			oddsFlag,
			mediumFlag,
			lowFlag,
		},
		Action: func(c *cli.Context) error {
			return run(c.Context, optionsFromContext(c))
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("scoring failed", tint.Err(err))
		os.Exit(1)
	}
}

type options struct {
	Input      string
	Output     string
	ModelPath  string
	ScalerPath string
	IDColumn   string

	ScoreRef        float64
	PDO             float64
	OddsRef         float64
	MediumThreshold float64
	LowThreshold    float64
}

func optionsFromContext(c *cli.Context) options {
	return options{
		Input:           c.String(inputFlag.Name),
		Output:          c.String(outputFlag.Name),
		ModelPath:       c.String(modelFlag.Name),
		ScalerPath:      c.String(scalerFlag.Name),
		IDColumn:        c.String(idColumnFlag.Name),
		ScoreRef:        c.Float64(scoreRefFlag.Name),
		PDO:             c.Float64(pdoFlag.Name),
		OddsRef:         c.Float64(oddsFlag.Name),
		MediumThreshold: c.Float64(mediumFlag.Name),
		LowThreshold:    c.Float64(lowFlag.Name),
	}
}

func run(ctx context.Context, opts options) error {
	sc, err := scorecard.New(opts.ScoreRef, opts.PDO, opts.OddsRef).
		WithThresholds(opts.MediumThreshold, opts.LowThreshold)
	if err != nil {
		return fmt.Errorf("scorecard.WithThresholds: %w", err)
	}

	scoringService := scoring.NewService(sc)

	if opts.ModelPath != "" {
		classifier, err := model.Load(opts.ModelPath)
		if err != nil {
			return fmt.Errorf("model.Load: %w", err)
		}

		if opts.ScalerPath != "" {
			scaler, err := model.LoadScaler(opts.ScalerPath)
			if err != nil {
				return fmt.Errorf("model.LoadScaler: %w", err)
			}

			classifier, err = classifier.WithScaler(scaler)
			if err != nil {
				return fmt.Errorf("classifier.WithScaler: %w", err)
			}
		}

		scoringService = scoringService.WithModel(classifier)
	}

	input, err := os.Open(opts.Input)
	if err != nil {
		return fmt.Errorf("os.Open: %w", err)
	}
	defer input.Close()

	table, err := dataset.ReadCSV(input, opts.IDColumn)
	if err != nil {
		return fmt.Errorf("dataset.ReadCSV: %w", err)
	}

	ds, err := scoringService.ScoreTable(ctx, table, opts.Input)
	if err != nil {
		return fmt.Errorf("scoringService.ScoreTable: %w", err)
	}

	output, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}
	defer output.Close()

	if err := dataset.WriteCSV(output, ds); err != nil {
		return fmt.Errorf("dataset.WriteCSV: %w", err)
	}

	slog.Info("portfolio scored",
		slog.String("output", opts.Output),
		slog.Int("rows", ds.Summary.Rows),
		slog.Float64("avg-pd", ds.Summary.AvgPD),
		slog.Float64("avg-score", ds.Summary.AvgScore),
		slog.Int("high-risk", ds.Summary.HighRisk),
	)

	return nil
}
