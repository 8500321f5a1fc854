package plans

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

func (r *Repo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
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

	return fn(tx)
}

// lockPlan row-locks the plan for the rest of the transaction. Plans of other users
// are reported as not found.
func lockPlan(ctx context.Context, tx pgx.Tx, userID, planID int) error {
	var id int
	err := tx.QueryRow(
		ctx,
		`SELECT id FROM workout_plan WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		planID,
		userID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("plan %d: %w", planID, gymlog.ErrNotFound)
		}
		return fmt.Errorf("lock plan: %w", err)
	}
	return nil
}

// lockUser serializes the plan writes of one user that may change which plan is active.
func lockUser(ctx context.Context, tx pgx.Tx, userID int) error {
	var id int
	err := tx.QueryRow(ctx, `SELECT id FROM gymlog_user WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %d: %w", userID, gymlog.ErrNotFound)
		}
		return fmt.Errorf("lock user: %w", err)
	}
	return nil
}

func deactivateOtherPlans(ctx context.Context, tx pgx.Tx, userID, keepPlanID int) error {
	_, err := tx.Exec(
		ctx,
		`UPDATE workout_plan SET is_active = false WHERE user_id = $1 AND is_active AND id <> $2`,
		userID,
		keepPlanID,
	)
	if err != nil {
		return fmt.Errorf("deactivate plans: %w", err)
	}
	return nil
}

// Create inserts a plan. An active plan deactivates the other plans of the user.
func (r *Repo) Create(ctx context.Context, userID int, params PlanParams) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	plan := Plan{UserID: userID}
	err = r.inTx(ctx, func(tx pgx.Tx) error {
		if params.activeOnCreate() {
			if err := lockUser(ctx, tx, userID); err != nil {
				return err
			}
			if err := deactivateOtherPlans(ctx, tx, userID, 0); err != nil {
				return err
			}
		}
		return tx.QueryRow(
			ctx,
			`
				INSERT INTO workout_plan (user_id, name, description, is_active)
				VALUES ($1, $2, $3, $4)
				RETURNING id, name, description, is_active, created_at
			`,
			userID,
			params.Name,
			params.Description,
			params.activeOnCreate(),
		).Scan(&plan.ID, &plan.Name, &plan.Description, &plan.IsActive, &plan.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	return &plan, nil
}

// Update rewrites name and description. The active flag changes only when IsActive is set,
// and setting it deactivates the other plans of the user.
func (r *Repo) Update(ctx context.Context, userID, planID int, params PlanParams) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("plan.id", planID))

	plan := Plan{UserID: userID}
	err = r.inTx(ctx, func(tx pgx.Tx) error {
		if params.activates() {
			if err := lockUser(ctx, tx, userID); err != nil {
				return err
			}
		}
		if err := lockPlan(ctx, tx, userID, planID); err != nil {
			return err
		}
		if params.activates() {
			if err := deactivateOtherPlans(ctx, tx, userID, planID); err != nil {
				return err
			}
		}
		return tx.QueryRow(
			ctx,
			`
				UPDATE workout_plan
				SET name = $3, description = $4, is_active = COALESCE($5::boolean, is_active)
				WHERE id = $1 AND user_id = $2
				RETURNING id, name, description, is_active, created_at,
				    (SELECT COUNT(*) FROM planned_exercise WHERE plan_id = $1)
			`,
			planID,
			userID,
			params.Name,
			params.Description,
			params.IsActive,
		).Scan(&plan.ID, &plan.Name, &plan.Description, &plan.IsActive, &plan.CreatedAt, &plan.ExerciseCount)
	})
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}

	return &plan, nil
}

// Get returns the plan with its exercises in order.
func (r *Repo) Get(ctx context.Context, userID, planID int) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("plan.id", planID))

	plan := Plan{UserID: userID}
	err = r.db.QueryRow(
		ctx,
		`
			SELECT id, name, description, is_active, created_at
			FROM workout_plan
			WHERE id = $1 AND user_id = $2
		`,
		planID,
		userID,
	).Scan(&plan.ID, &plan.Name, &plan.Description, &plan.IsActive, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("plan %d: %w", planID, gymlog.ErrNotFound)
		}
		return nil, fmt.Errorf("plan [query row]: %w", err)
	}

	plan.Exercises, err = r.plannedExercises(ctx, planID)
	if err != nil {
		return nil, err
	}
	plan.ExerciseCount = len(plan.Exercises)

	return &plan, nil
}

func (r *Repo) plannedExercises(ctx context.Context, planID int) ([]PlannedExercise, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
			    pe.id, pe.plan_id, pe.exercise_id, e.name, e.muscle_group,
			    pe.target_sets, pe.target_reps, pe.sort_order, pe.notes
			FROM planned_exercise pe
			JOIN exercise e ON e.id = pe.exercise_id
			WHERE pe.plan_id = $1
			ORDER BY pe.sort_order, pe.id
		`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("planned exercises [query]: %w", err)
	}
	defer rows.Close()

	exercises := []PlannedExercise{}
	for rows.Next() {
		var pe PlannedExercise
		if err := rows.Scan(
			&pe.ID,
			&pe.PlanID,
			&pe.ExerciseID,
			&pe.ExerciseName,
			&pe.MuscleGroup,
			&pe.TargetSets,
			&pe.TargetReps,
			&pe.Order,
			&pe.Notes,
		); err != nil {
			return nil, fmt.Errorf("planned exercises [rows scan]: %w", err)
		}
		exercises = append(exercises, pe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("planned exercises [rows error]: %w", err)
	}

	return exercises, nil
}

// List returns the plans of the user, newest first, with their exercise counts.
func (r *Repo) List(ctx context.Context, userID int) (_ []Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
			    p.id, p.name, p.description, p.is_active, p.created_at,
			    (SELECT COUNT(*) FROM planned_exercise pe WHERE pe.plan_id = p.id)
			FROM workout_plan p
			WHERE p.user_id = $1
			ORDER BY p.created_at DESC, p.id DESC
		`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("plans [query]: %w", err)
	}
	defer rows.Close()

	plans := []Plan{}
	for rows.Next() {
		plan := Plan{UserID: userID}
		if err := rows.Scan(
			&plan.ID,
			&plan.Name,
			&plan.Description,
			&plan.IsActive,
			&plan.CreatedAt,
			&plan.ExerciseCount,
		); err != nil {
			return nil, fmt.Errorf("plans [rows scan]: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("plans [rows error]: %w", err)
	}

	return plans, nil
}

func (r *Repo) Delete(ctx context.Context, userID, planID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_plan WHERE id = $1 AND user_id = $2`, planID, userID)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %d: %w", planID, gymlog.ErrNotFound)
	}

	return nil
}

// Active returns the active plan of the user with its exercises, or nil when there is none.
func (r *Repo) Active(ctx context.Context, userID int) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.active")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var planID int
	err = r.db.QueryRow(
		ctx,
		`
			SELECT id FROM workout_plan
			WHERE user_id = $1 AND is_active
			ORDER BY created_at DESC
			LIMIT 1
		`,
		userID,
	).Scan(&planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("active plan [query row]: %w", err)
	}

	return r.Get(ctx, userID, planID)
}

// AddExercise appends an exercise to the plan with order max(order) + 1, or 0 for an empty plan.
func (r *Repo) AddExercise(ctx context.Context, userID, planID int, params AddExerciseParams) (_ *PlannedExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.add_exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("plan.id", planID),
		attribute.Int("exercise.id", params.ExerciseID),
	)

	var pe PlannedExercise
	err = r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockPlan(ctx, tx, userID, planID); err != nil {
			return err
		}
		return tx.QueryRow(
			ctx,
			`
				WITH ins AS (
				    INSERT INTO planned_exercise (plan_id, exercise_id, target_sets, target_reps, sort_order, notes)
				    SELECT $1, $2, $3, $4, COALESCE(MAX(sort_order), -1) + 1, $5
				    FROM planned_exercise
				    WHERE plan_id = $1
				    RETURNING id, plan_id, exercise_id, target_sets, target_reps, sort_order, notes
				)
				SELECT
				    ins.id, ins.plan_id, ins.exercise_id, e.name, e.muscle_group,
				    ins.target_sets, ins.target_reps, ins.sort_order, ins.notes
				FROM ins
				JOIN exercise e ON e.id = ins.exercise_id
			`,
			planID,
			params.ExerciseID,
			params.TargetSets,
			params.TargetReps,
			params.Notes,
		).Scan(
			&pe.ID,
			&pe.PlanID,
			&pe.ExerciseID,
			&pe.ExerciseName,
			&pe.MuscleGroup,
			&pe.TargetSets,
			&pe.TargetReps,
			&pe.Order,
			&pe.Notes,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("add planned exercise: %w", err)
	}

	return &pe, nil
}

// RemoveExercise deletes a planned exercise and renumbers the rest of its plan densely.
func (r *Repo) RemoveExercise(ctx context.Context, userID, plannedExerciseID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.remove_exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("planned_exercise.id", plannedExerciseID))

	err = r.inTx(ctx, func(tx pgx.Tx) error {
		var planID int
		err := tx.QueryRow(
			ctx,
			`
				SELECT pe.plan_id
				FROM planned_exercise pe
				JOIN workout_plan p ON p.id = pe.plan_id
				WHERE pe.id = $1 AND p.user_id = $2
			`,
			plannedExerciseID,
			userID,
		).Scan(&planID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("planned exercise %d: %w", plannedExerciseID, gymlog.ErrNotFound)
			}
			return fmt.Errorf("planned exercise [query row]: %w", err)
		}

		if err := lockPlan(ctx, tx, userID, planID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM planned_exercise WHERE id = $1 AND plan_id = $2`, plannedExerciseID, planID)
		if err != nil {
			return fmt.Errorf("delete planned exercise: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("planned exercise %d: %w", plannedExerciseID, gymlog.ErrNotFound)
		}

		_, err = tx.Exec(
			ctx,
			`
				UPDATE planned_exercise pe
				SET sort_order = r.position
				FROM (
				    SELECT id, ROW_NUMBER() OVER (ORDER BY sort_order, id) - 1 AS position
				    FROM planned_exercise
				    WHERE plan_id = $1
				) r
				WHERE pe.id = r.id AND pe.sort_order <> r.position
			`,
			planID,
		)
		if err != nil {
			return fmt.Errorf("renumber planned exercises: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove planned exercise: %w", err)
	}

	return nil
}

// Reorder assigns each planned exercise its position in ids. ids must hold exactly the
// plan's planned exercise ids; otherwise nothing changes and ErrInvalidSequence is returned.
func (r *Repo) Reorder(ctx context.Context, userID, planID int, ids []int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.reorder")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("plan.id", planID),
		attribute.Int("reorder.size", len(ids)),
	)

	err = r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockPlan(ctx, tx, userID, planID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `SELECT id FROM planned_exercise WHERE plan_id = $1`, planID)
		if err != nil {
			return fmt.Errorf("planned exercise ids [query]: %w", err)
		}
		current, err := pgx.CollectRows(rows, pgx.RowTo[int])
		if err != nil {
			return fmt.Errorf("planned exercise ids [collect]: %w", err)
		}

		if err := validateSequence(current, ids); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		idParams := make([]int64, len(ids))
		positions := make([]int32, len(ids))
		for i, id := range ids {
			idParams[i] = int64(id)
			positions[i] = int32(i)
		}

		_, err = tx.Exec(
			ctx,
			`
				UPDATE planned_exercise pe
				SET sort_order = v.position
				FROM unnest($2::bigint[], $3::int[]) AS v(id, position)
				WHERE pe.id = v.id AND pe.plan_id = $1
			`,
			planID,
			idParams,
			positions,
		)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reorder plan %d: %w", planID, err)
	}

	return nil
}
