package ledger

import (
	"context"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// weights are NUMERIC in the db and hundredths in Go, converted in SQL both ways
const selectLogColumns = `
	l.id, l.user_id, l.exercise_id, e.name, l.date, l.sets, l.reps,
	(l.weight * 100)::bigint, (l.one_rm * 100)::bigint, l.notes, l.created_at
`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Insert appends a new log entry. OneRM is always recomputed from weight and reps.
func (r *Repo) Insert(ctx context.Context, entry LogEntry) (_ *LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", entry.UserID),
		attribute.Int("exercise.id", entry.ExerciseID),
	)

	entry = entry.Recomputed()
	err = r.db.QueryRow(
		ctx,
		`
			INSERT INTO exercise_log (user_id, exercise_id, date, sets, reps, weight, one_rm, notes)
			VALUES ($1, $2, $3, $4, $5, $6::bigint / 100.0, $7::bigint / 100.0, $8)
			RETURNING id, created_at
		`,
		entry.UserID,
		entry.ExerciseID,
		entry.Date.Time,
		entry.Sets,
		entry.Reps,
		int64(entry.Weight),
		int64(entry.OneRM),
		entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert exercise log: %w", err)
	}

	return &entry, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+selectLogColumns+`
			FROM exercise_log l
			JOIN exercise e ON e.id = l.exercise_id
			WHERE l.id = $1 AND l.user_id = $2
		`,
		id,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("exercise log [query]: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("exercise log %d: %w", id, gymlog.ErrNotFound)
	}

	return &entries[0], nil
}

// Delete removes a log entry owned by userID. Entries of other users are reported as not found.
func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise_log WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete exercise log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("exercise log %d: %w", id, gymlog.ErrNotFound)
	}

	return nil
}

// ListForExercise returns the user's entries for one exercise ordered by (date, id).
// A nil since returns the whole history.
func (r *Repo) ListForExercise(ctx context.Context, userID, exerciseID int, since *Date) (_ []LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.list_for_exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	var sinceParam any
	if since != nil {
		sinceParam = since.Time
		span.SetAttributes(attribute.String("params.since", since.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+selectLogColumns+`
			FROM exercise_log l
			JOIN exercise e ON e.id = l.exercise_id
			WHERE l.user_id = $1 AND l.exercise_id = $2 AND ($3::date IS NULL OR l.date >= $3::date)
			ORDER BY l.date, l.id
		`,
		userID,
		exerciseID,
		sinceParam,
	)
	if err != nil {
		return nil, fmt.Errorf("exercise logs [query]: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Best returns the highest one-rep max of the user for the exercise, or nil without entries.
func (r *Repo) Best(ctx context.Context, userID, exerciseID int) (_ *Weight, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.best")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var best *int64
	err = r.db.QueryRow(
		ctx,
		`
			SELECT (MAX(one_rm) * 100)::bigint
			FROM exercise_log
			WHERE user_id = $1 AND exercise_id = $2
		`,
		userID,
		exerciseID,
	).Scan(&best)
	if err != nil {
		return nil, fmt.Errorf("best one rm [query row]: %w", err)
	}
	if best == nil {
		return nil, nil
	}

	w := Weight(*best)
	return &w, nil
}

func (r *Repo) Count(ctx context.Context, userID, exerciseID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM exercise_log WHERE user_id = $1 AND exercise_id = $2`,
		userID,
		exerciseID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count exercise logs [query row]: %w", err)
	}

	return count, nil
}

// CountOn returns how many entries the user logged on the given day.
func (r *Repo) CountOn(ctx context.Context, userID int, day Date) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.count_on")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM exercise_log WHERE user_id = $1 AND date = $2`,
		userID,
		day.Time,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count exercise logs on day [query row]: %w", err)
	}

	return count, nil
}

// Recent returns the latest entries of the user ordered by (date, id) descending.
func (r *Repo) Recent(ctx context.Context, userID, limit int) (_ []LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.recent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+selectLogColumns+`
			FROM exercise_log l
			JOIN exercise e ON e.id = l.exercise_id
			WHERE l.user_id = $1
			ORDER BY l.date DESC, l.id DESC
			LIMIT $2
		`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent exercise logs [query]: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Overview returns, for every exercise the user has logged, the best one-rep max and
// the most recent entry.
func (r *Repo) Overview(ctx context.Context, userID int) (_ []ExerciseProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.overview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
			    e.id, e.name, e.muscle_group, e.description, e.created_by, e.created_at,
			    (b.best * 100)::bigint,
			    l.id, l.user_id, l.exercise_id, l.date, l.sets, l.reps,
			    (l.weight * 100)::bigint, (l.one_rm * 100)::bigint, l.notes, l.created_at
			FROM (
			    SELECT exercise_id, MAX(one_rm) AS best
			    FROM exercise_log
			    WHERE user_id = $1
			    GROUP BY exercise_id
			) b
			JOIN exercise e ON e.id = b.exercise_id
			JOIN LATERAL (
			    SELECT *
			    FROM exercise_log
			    WHERE user_id = $1 AND exercise_id = b.exercise_id
			    ORDER BY date DESC, id DESC
			    LIMIT 1
			) l ON true
			ORDER BY e.muscle_group, e.name
		`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("progress overview [query]: %w", err)
	}
	defer rows.Close()

	overview := []ExerciseProgress{}
	for rows.Next() {
		var p ExerciseProgress
		if err := rows.Scan(
			&p.Exercise.ID,
			&p.Exercise.Name,
			&p.Exercise.MuscleGroup,
			&p.Exercise.Description,
			&p.Exercise.CreatedBy,
			&p.Exercise.CreatedAt,
			&p.BestOneRM,
			&p.LastLog.ID,
			&p.LastLog.UserID,
			&p.LastLog.ExerciseID,
			&p.LastLog.Date.Time,
			&p.LastLog.Sets,
			&p.LastLog.Reps,
			&p.LastLog.Weight,
			&p.LastLog.OneRM,
			&p.LastLog.Notes,
			&p.LastLog.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("progress overview [rows scan]: %w", err)
		}
		p.LastLog.ExerciseName = p.Exercise.Name
		overview = append(overview, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("progress overview [rows error]: %w", err)
	}

	return overview, nil
}

func scanEntries(rows pgx.Rows) ([]LogEntry, error) {
	entries := []LogEntry{}
	for rows.Next() {
		var entry LogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.ExerciseID,
			&entry.ExerciseName,
			&entry.Date.Time,
			&entry.Sets,
			&entry.Reps,
			&entry.Weight,
			&entry.OneRM,
			&entry.Notes,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("exercise logs [rows scan]: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercise logs [rows error]: %w", err)
	}
	return entries, nil
}
