package plans

import (
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/gymlog/catalog"
)

type Plan struct {
	ID            int               `json:"id"`
	UserID        int               `json:"-"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	IsActive      bool              `json:"isActive"`
	CreatedAt     time.Time         `json:"createdAt"`
	ExerciseCount int               `json:"exerciseCount"`
	Exercises     []PlannedExercise `json:"exercises,omitempty"`
}

// PlannedExercise is one exercise of a plan. Order is zero-based and dense within the plan.
type PlannedExercise struct {
	ID           int                 `json:"id"`
	PlanID       int                 `json:"planId"`
	ExerciseID   int                 `json:"exerciseId"`
	ExerciseName string              `json:"exerciseName"`
	MuscleGroup  catalog.MuscleGroup `json:"muscleGroup"`
	TargetSets   int                 `json:"targetSets"`
	TargetReps   int                 `json:"targetReps"`
	Order        int                 `json:"order"`
	Notes        string              `json:"notes"`
}

// PlanParams is the input for creating or updating a plan. A nil IsActive creates an
// active plan and leaves the stored flag untouched on update.
type PlanParams struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

func (p *PlanParams) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	return gymlog.Validate(p)
}

func (p PlanParams) activeOnCreate() bool {
	return p.IsActive == nil || *p.IsActive
}

func (p PlanParams) activates() bool {
	return p.IsActive != nil && *p.IsActive
}

type AddExerciseParams struct {
	ExerciseID int    `json:"exerciseId" validate:"required"`
	TargetSets int    `json:"targetSets" validate:"gte=1,lte=100"`
	TargetReps int    `json:"targetReps" validate:"gte=1,lte=1000"`
	Notes      string `json:"notes" validate:"max=200"`
}

func (p *AddExerciseParams) normalize() error {
	p.Notes = strings.TrimSpace(p.Notes)
	return gymlog.Validate(p)
}
