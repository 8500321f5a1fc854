package ledger

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/gymlog/catalog"
	"github.com/2beens/gymlog/pkg"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const logExerciseFKConstraint = "exercise_log_exercise_id_fkey"

//go:generate mockgen -source=$GOFILE -destination=ledger_mocks_test.go -package=ledger_test

type logsRepo interface {
	Insert(ctx context.Context, entry LogEntry) (_ *LogEntry, err error)
	Get(ctx context.Context, userID, id int) (_ *LogEntry, err error)
	Delete(ctx context.Context, userID, id int) (err error)
	ListForExercise(ctx context.Context, userID, exerciseID int, since *Date) (_ []LogEntry, err error)
	Best(ctx context.Context, userID, exerciseID int) (_ *Weight, err error)
	Count(ctx context.Context, userID, exerciseID int) (_ int, err error)
	CountOn(ctx context.Context, userID int, day Date) (_ int, err error)
	Recent(ctx context.Context, userID, limit int) (_ []LogEntry, err error)
	Overview(ctx context.Context, userID int) (_ []ExerciseProgress, err error)
}

type exerciseGetter interface {
	Get(ctx context.Context, id int) (*catalog.Exercise, error)
}

type Service struct {
	repo      logsRepo
	exercises exerciseGetter
	now       func() time.Time
}

func NewService(repo logsRepo, exercises exerciseGetter) *Service {
	return &Service{
		repo:      repo,
		exercises: exercises,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to resolve "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() Date {
	return DateOf(s.now())
}

// Record validates params and appends a new entry with its one-rep max.
func (s *Service) Record(ctx context.Context, userID int, params RecordParams) (*LogEntry, error) {
	entry, err := NewLogEntry(userID, params)
	if err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("log.one_rm", entry.OneRM.String()))

	saved, err := s.repo.Insert(ctx, *entry)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) && pkg.ConstraintName(err) == logExerciseFKConstraint {
			return nil, gymlog.NewValidationError("exerciseId", "exercise does not exist")
		}
		return nil, fmt.Errorf("record log: %w", err)
	}

	return saved, nil
}

// BestMetric returns the best one-rep max ever logged, or nil when nothing was logged.
func (s *Service) BestMetric(ctx context.Context, userID, exerciseID int) (*Weight, error) {
	return s.repo.Best(ctx, userID, exerciseID)
}

// Trend fetches the entries inside window once. The result can be walked in both orders.
func (s *Service) Trend(ctx context.Context, userID, exerciseID int, window Window) (*Trend, error) {
	window = ParseWindow(string(window))

	var since *Date
	if d, bounded := window.Since(s.today()); bounded {
		since = &d
	}

	entries, err := s.repo.ListForExercise(ctx, userID, exerciseID, since)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	return NewTrend(window, entries), nil
}

// Progress combines the all-time best and count with the windowed trend of one exercise.
func (s *Service) Progress(ctx context.Context, userID, exerciseID int, windowToken string) (*Progress, error) {
	if _, err := s.exercises.Get(ctx, exerciseID); err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}

	best, err := s.repo.Best(ctx, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("best metric: %w", err)
	}
	total, err := s.repo.Count(ctx, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}
	trend, err := s.Trend(ctx, userID, exerciseID, Window(windowToken))
	if err != nil {
		return nil, err
	}

	return &Progress{
		ExerciseID:    exerciseID,
		BestOneRM:     best,
		TotalCount:    total,
		Window:        trend.Window,
		WindowLabel:   trend.Window.Label(),
		Entries:       slices.AppendSeq(make([]LogEntry, 0, trend.Len()), trend.Latest()),
		Chart:         slices.AppendSeq(make([]ChartPoint, 0, trend.Len()), chartPoints(trend.Chronological())),
		WindowedCount: trend.Len(),
	}, nil
}

// Overview lists every logged exercise ordered by muscle group, then name.
func (s *Service) Overview(ctx context.Context, userID int) ([]ExerciseProgress, error) {
	overview, err := s.repo.Overview(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress overview: %w", err)
	}

	slices.SortStableFunc(overview, func(a, b ExerciseProgress) int {
		return cmp.Or(
			cmp.Compare(a.Exercise.MuscleGroup, b.Exercise.MuscleGroup),
			cmp.Compare(a.Exercise.Name, b.Exercise.Name),
		)
	})

	return overview, nil
}

func (s *Service) Get(ctx context.Context, userID, id int) (*LogEntry, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id int) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) Recent(ctx context.Context, userID, limit int) ([]LogEntry, error) {
	return s.repo.Recent(ctx, userID, limit)
}

// CountToday returns the number of entries dated today.
func (s *Service) CountToday(ctx context.Context, userID int) (int, error) {
	return s.repo.CountOn(ctx, userID, s.today())
}
