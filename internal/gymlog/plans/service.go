package plans

import (
	"context"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/pkg"
)

const (
	plannedExerciseFKConstraint     = "planned_exercise_exercise_id_fkey"
	plannedExerciseUniqueConstraint = "planned_exercise_plan_exercise_key"
	oneActivePlanConstraint         = "ux_workout_plan_one_active"
)

//go:generate mockgen -source=$GOFILE -destination=plans_mocks_test.go -package=plans_test

type plansRepo interface {
	Create(ctx context.Context, userID int, params PlanParams) (_ *Plan, err error)
	Update(ctx context.Context, userID, planID int, params PlanParams) (_ *Plan, err error)
	Get(ctx context.Context, userID, planID int) (_ *Plan, err error)
	List(ctx context.Context, userID int) (_ []Plan, err error)
	Delete(ctx context.Context, userID, planID int) (err error)
	Active(ctx context.Context, userID int) (_ *Plan, err error)
	AddExercise(ctx context.Context, userID, planID int, params AddExerciseParams) (_ *PlannedExercise, err error)
	RemoveExercise(ctx context.Context, userID, plannedExerciseID int) (err error)
	Reorder(ctx context.Context, userID, planID int, ids []int) (err error)
}

type Service struct {
	repo plansRepo
}

func NewService(repo plansRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) Create(ctx context.Context, userID int, params PlanParams) (*Plan, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	plan, err := s.repo.Create(ctx, userID, params)
	if err != nil {
		return nil, activePlanConflict(err)
	}
	return plan, nil
}

func (s *Service) Update(ctx context.Context, userID, planID int, params PlanParams) (*Plan, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	plan, err := s.repo.Update(ctx, userID, planID, params)
	if err != nil {
		return nil, activePlanConflict(err)
	}
	return plan, nil
}

func activePlanConflict(err error) error {
	if pkg.IsUniqueViolationError(err) && pkg.ConstraintName(err) == oneActivePlanConstraint {
		return gymlog.NewValidationError("isActive", "another plan was activated at the same time, try again")
	}
	return err
}

func (s *Service) Get(ctx context.Context, userID, planID int) (*Plan, error) {
	return s.repo.Get(ctx, userID, planID)
}

func (s *Service) List(ctx context.Context, userID int) ([]Plan, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, planID int) error {
	return s.repo.Delete(ctx, userID, planID)
}

// Active returns the active plan of the user, or nil.
func (s *Service) Active(ctx context.Context, userID int) (*Plan, error) {
	return s.repo.Active(ctx, userID)
}

func (s *Service) AddExercise(ctx context.Context, userID, planID int, params AddExerciseParams) (*PlannedExercise, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}

	pe, err := s.repo.AddExercise(ctx, userID, planID, params)
	if err != nil {
		switch {
		case pkg.IsForeignKeyViolationError(err) && pkg.ConstraintName(err) == plannedExerciseFKConstraint:
			return nil, gymlog.NewValidationError("exerciseId", "exercise does not exist")
		case pkg.IsUniqueViolationError(err) && pkg.ConstraintName(err) == plannedExerciseUniqueConstraint:
			return nil, gymlog.NewValidationError("exerciseId", "exercise is already in this plan")
		}
		return nil, fmt.Errorf("add exercise to plan: %w", err)
	}

	return pe, nil
}

func (s *Service) RemoveExercise(ctx context.Context, userID, plannedExerciseID int) error {
	return s.repo.RemoveExercise(ctx, userID, plannedExerciseID)
}

// Reorder sets the order of the plan's exercises to their positions in ids. It fails with
// ErrNotFound for plans the user does not own and ErrInvalidSequence when ids is not a
// permutation of the plan's planned exercise ids.
func (s *Service) Reorder(ctx context.Context, userID, planID int, ids []int) error {
	return s.repo.Reorder(ctx, userID, planID, ids)
}
