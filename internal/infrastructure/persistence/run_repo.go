package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"scorecard/internal/domain"
	"scorecard/internal/domain/entity"
	"scorecard/pkg/errcodes"
)

// RunRepository persists scoring-run audit rows. Only aggregates and the
// constants in force are stored; scored customer records never reach the
// database.
type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *RunRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create inserts one run audit row.
func (r *RunRepository) Create(ctx context.Context, run *entity.ScoringRun) error {
	schema, err := fromRun(run)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal categories")
	}

	if schema.CreatedAt.IsZero() {
		schema.CreatedAt = time.Now()
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO scoring_runs (id, source, rows, avg_pd, avg_score, categories, score_ref, pdo, odds_ref, created_at)
			VALUES (:id, :source, :rows, :avg_pd, :avg_score, :categories, :score_ref, :pdo, :odds_ref, :created_at)`

		if _, err := tx.NamedExecContext(ctx, query, schema); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert run")
		}

		return nil
	})
}

// GetByID returns one run.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*entity.ScoringRun, error) {
	query := `
		SELECT id, source, rows, avg_pd, avg_score, categories, score_ref, pdo, odds_ref, created_at
		FROM scoring_runs
		WHERE id = $1`

	var schema runSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.RunNotFound, "run not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get run")
	}

	return schema.toDomain()
}

// List returns the most recent runs.
func (r *RunRepository) List(ctx context.Context, limit int) ([]entity.ScoringRun, error) {
	query := `
		SELECT id, source, rows, avg_pd, avg_score, categories, score_ref, pdo, odds_ref, created_at
		FROM scoring_runs
		ORDER BY created_at DESC
		LIMIT $1`

	var schemas []runSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list runs")
	}

	runs := make([]entity.ScoringRun, 0, len(schemas))
	for _, s := range schemas {
		run, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert run")
		}
		runs = append(runs, *run)
	}

	return runs, nil
}
