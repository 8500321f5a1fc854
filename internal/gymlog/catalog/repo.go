package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, params AddParams) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exercise Exercise
	err = r.db.QueryRow(
		ctx,
		`
			INSERT INTO exercise (name, muscle_group, description, created_by)
			VALUES ($1, $2, $3, $4)
			RETURNING id, name, muscle_group, description, created_by, created_at
		`,
		params.Name,
		params.MuscleGroup,
		params.Description,
		params.CreatedBy,
	).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.MuscleGroup,
		&exercise.Description,
		&exercise.CreatedBy,
		&exercise.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	return &exercise, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	var exercise Exercise
	err = r.db.QueryRow(
		ctx,
		`
			SELECT
			    id, name, muscle_group, description, created_by, created_at
			FROM exercise
			WHERE id = $1
		`,
		id,
	).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.MuscleGroup,
		&exercise.Description,
		&exercise.CreatedBy,
		&exercise.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("exercise %d: %w", id, gymlog.ErrNotFound)
		}
		return nil, fmt.Errorf("exercise [query row]: %w", err)
	}

	return &exercise, nil
}

// List returns the catalog ordered by (muscle_group, name). An empty muscle group lists everything.
func (r *Repo) List(ctx context.Context, muscleGroup MuscleGroup) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if muscleGroup != "" {
		span.SetAttributes(attribute.String("params.muscleGroup", muscleGroup.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
			    id, name, muscle_group, description, created_by, created_at
			FROM exercise
			WHERE ($1::text = '' OR muscle_group = $1)
			ORDER BY muscle_group, name
		`,
		muscleGroup,
	)
	if err != nil {
		return nil, fmt.Errorf("exercises [query]: %w", err)
	}
	defer rows.Close()

	return scanExercises(rows)
}

// Search matches the query as a case-insensitive substring of the exercise name.
func (r *Repo) Search(ctx context.Context, query string, limit int) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.search")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("params.query", query))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
			    id, name, muscle_group, description, created_by, created_at
			FROM exercise
			WHERE strpos(lower(name), lower($1)) > 0
			ORDER BY muscle_group, name
			LIMIT $2
		`,
		query,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search exercises [query]: %w", err)
	}
	defer rows.Close()

	return scanExercises(rows)
}

// Seed inserts the given exercises, skipping names that already exist.
func (r *Repo) Seed(ctx context.Context, exercises []AddParams) (created int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.seed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for _, e := range exercises {
		batch.Queue(
			`
				INSERT INTO exercise (name, muscle_group, description)
				VALUES ($1, $2, $3)
				ON CONFLICT (name) DO NOTHING
			`,
			e.Name, e.MuscleGroup, e.Description,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range exercises {
		tag, execErr := results.Exec()
		if execErr != nil {
			_ = results.Close()
			return 0, fmt.Errorf("seed exercise: %w", execErr)
		}
		created += int(tag.RowsAffected())
	}
	if err = results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	span.SetAttributes(attribute.Int("seed.created", created))
	return created, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("exercise %d: %w", id, gymlog.ErrNotFound)
	}

	return nil
}

func scanExercises(rows pgx.Rows) ([]Exercise, error) {
	exercises := []Exercise{}
	for rows.Next() {
		var exercise Exercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.MuscleGroup,
			&exercise.Description,
			&exercise.CreatedBy,
			&exercise.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("exercises [rows scan]: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercises [rows error]: %w", err)
	}
	return exercises, nil
}
