package mcp

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/2beens/gymlog/internal/gymlog/catalog"
	"github.com/2beens/gymlog/internal/gymlog/ledger"
	"github.com/2beens/gymlog/internal/gymlog/plans"
)

type exerciseLister interface {
	List(ctx context.Context, muscleGroup catalog.MuscleGroup) ([]catalog.Exercise, error)
}

type progressReader interface {
	Overview(ctx context.Context, userID int) ([]ledger.ExerciseProgress, error)
	Progress(ctx context.Context, userID, exerciseID int, windowToken string) (*ledger.Progress, error)
}

type planLister interface {
	List(ctx context.Context, userID int) ([]plans.Plan, error)
}

// contextService provides gymlog context data for one user. Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListExercises(ctx context.Context, muscleGroup string) ([]catalog.Exercise, error)
	ProgressOverview(ctx context.Context, userID int) ([]ledger.ExerciseProgress, error)
	ExerciseTrend(ctx context.Context, userID, exerciseID int, period string) (*ledger.Progress, error)
	ListPlans(ctx context.Context, userID int) ([]plans.Plan, error)
}

// ContextService holds dependencies and implements the gymlog context business logic.
type ContextService struct {
	schema    SchemaRepo
	exercises exerciseLister
	progress  progressReader
	plans     planLister
}

func NewContextService(
	schemaRepo SchemaRepo,
	exercises exerciseLister,
	progress progressReader,
	plans planLister,
) *ContextService {
	return &ContextService{
		schema:    schemaRepo,
		exercises: exercises,
		progress:  progress,
		plans:     plans,
	}
}

// GetSchema returns the DB schema (table names, columns, types) of the gymlog tables as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetGymlogColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatGymlogSchema(cols), nil
}

func formatGymlogSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Gymlog DB Schema\n\nNo gymlog tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	var b strings.Builder
	b.WriteString("# Gymlog DB Schema\n\n")
	fmt.Fprintf(&b, "Tables: %s (schema: public).\n\n", strings.Join(schemaTables, ", "))

	for _, tableName := range slices.Sorted(maps.Keys(byTable)) {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// ListExercises returns the catalog, optionally filtered by muscle group.
func (s *ContextService) ListExercises(ctx context.Context, muscleGroup string) ([]catalog.Exercise, error) {
	return s.exercises.List(ctx, catalog.MuscleGroup(strings.ToLower(strings.TrimSpace(muscleGroup))))
}

// ProgressOverview returns the best estimated 1RM and last log of every exercise the user logged.
func (s *ContextService) ProgressOverview(ctx context.Context, userID int) ([]ledger.ExerciseProgress, error) {
	return s.progress.Overview(ctx, userID)
}

// ExerciseTrend returns the progress of one exercise within the period (3m, 6m, 1y, all).
func (s *ContextService) ExerciseTrend(ctx context.Context, userID, exerciseID int, period string) (*ledger.Progress, error) {
	return s.progress.Progress(ctx, userID, exerciseID, period)
}

func (s *ContextService) ListPlans(ctx context.Context, userID int) ([]plans.Plan, error) {
	return s.plans.List(ctx, userID)
}
