package ledger

import (
	"encoding/json"
	"iter"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/gymlog/catalog"
)

// LogEntry is one recorded session of an exercise. OneRM is derived from Weight and Reps.
// ExerciseName is filled only by reads that join the catalog.
type LogEntry struct {
	ID           int       `json:"id"`
	UserID       int       `json:"-"`
	ExerciseID   int       `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName,omitempty"`
	Date         Date      `json:"date"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	Weight       Weight    `json:"weight"`
	OneRM        Weight    `json:"oneRm"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Recomputed returns a copy of e with OneRM derived from its weight and reps.
func (e LogEntry) Recomputed() LogEntry {
	e.OneRM = EstimateOneRM(e.Weight, e.Reps)
	return e
}

// RecordParams is the input for a new log entry. Weight is kept as the raw decimal
// so that malformed values surface as field errors.
type RecordParams struct {
	ExerciseID int         `json:"exerciseId" validate:"required"`
	Date       string      `json:"date" validate:"required"`
	Sets       int         `json:"sets" validate:"gte=1,lte=1000"`
	Reps       int         `json:"reps" validate:"gte=1,lte=1000"`
	Weight     json.Number `json:"weight" validate:"required"`
	Notes      string      `json:"notes"`
}

// NewLogEntry validates params and builds the entry with its one-rep max computed.
func NewLogEntry(userID int, params RecordParams) (*LogEntry, error) {
	err := gymlog.Validate(params)
	if err != nil {
		if _, ok := gymlog.IsValidationError(err); !ok {
			return nil, err
		}
	}

	var date Date
	if params.Date != "" {
		var dErr error
		if date, dErr = ParseDate(params.Date); dErr != nil {
			err = gymlog.WithFieldError(err, "date", "must be a date in YYYY-MM-DD format")
		}
	}

	var weight Weight
	if params.Weight != "" {
		var wErr error
		weight, wErr = ParseWeight(params.Weight.String())
		switch {
		case wErr != nil:
			err = gymlog.WithFieldError(err, "weight", wErr.Error())
		case weight < 0:
			err = gymlog.WithFieldError(err, "weight", "must be at least 0")
		}
	}

	if err != nil {
		return nil, err
	}

	entry := LogEntry{
		UserID:     userID,
		ExerciseID: params.ExerciseID,
		Date:       date,
		Sets:       params.Sets,
		Reps:       params.Reps,
		Weight:     weight,
		Notes:      strings.TrimSpace(params.Notes),
	}.Recomputed()

	return &entry, nil
}

// Trend is one fetch of an exercise history inside a window, oldest first.
type Trend struct {
	Window  Window
	entries []LogEntry
}

func NewTrend(window Window, chronological []LogEntry) *Trend {
	return &Trend{
		Window:  window,
		entries: chronological,
	}
}

func (t *Trend) Len() int {
	return len(t.entries)
}

// Chronological yields the entries by (date, insertion order) ascending.
func (t *Trend) Chronological() iter.Seq[LogEntry] {
	return func(yield func(LogEntry) bool) {
		for _, e := range t.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Latest yields the entries by (date, insertion order) descending.
func (t *Trend) Latest() iter.Seq[LogEntry] {
	return func(yield func(LogEntry) bool) {
		for i := len(t.entries) - 1; i >= 0; i-- {
			if !yield(t.entries[i]) {
				return
			}
		}
	}
}

// ExerciseProgress is the best all-time estimate and the last entry for one exercise.
type ExerciseProgress struct {
	Exercise  catalog.Exercise `json:"exercise"`
	BestOneRM Weight           `json:"bestOneRm"`
	LastLog   LogEntry         `json:"lastLog"`
}

// ChartPoint is one entry of the progress chart series.
type ChartPoint struct {
	Date   Date   `json:"date"`
	OneRM  Weight `json:"oneRm"`
	Weight Weight `json:"weight"`
	Reps   int    `json:"reps"`
	Sets   int    `json:"sets"`
}

func chartPoints(entries iter.Seq[LogEntry]) iter.Seq[ChartPoint] {
	return func(yield func(ChartPoint) bool) {
		for e := range entries {
			p := ChartPoint{Date: e.Date, OneRM: e.OneRM, Weight: e.Weight, Reps: e.Reps, Sets: e.Sets}
			if !yield(p) {
				return
			}
		}
	}
}

// Progress is the full progress view of one exercise. Entries are newest first,
// Chart holds the same window oldest first.
type Progress struct {
	ExerciseID    int          `json:"exerciseId"`
	BestOneRM     *Weight      `json:"bestOneRm"`
	TotalCount    int          `json:"totalCount"`
	Window        Window       `json:"period"`
	WindowLabel   string       `json:"periodLabel"`
	Entries       []LogEntry   `json:"entries"`
	Chart         []ChartPoint `json:"chart"`
	WindowedCount int          `json:"count"`
}
