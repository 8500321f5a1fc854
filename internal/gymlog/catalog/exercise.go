package catalog

import (
	"time"

	"github.com/2beens/gymlog/internal/gymlog"
)

type Exercise struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	MuscleGroup MuscleGroup `json:"muscleGroup"`
	Description string      `json:"description"`
	CreatedBy   *int        `json:"createdBy,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type AddParams struct {
	Name        string      `json:"name" validate:"required,max=100"`
	MuscleGroup MuscleGroup `json:"muscleGroup" validate:"required"`
	Description string      `json:"description"`
	CreatedBy   *int        `json:"-"`
}

func (p AddParams) Validate() error {
	err := gymlog.Validate(p)
	if p.MuscleGroup != "" && !p.MuscleGroup.IsValid() {
		return gymlog.WithFieldError(err, "muscleGroup", "unknown muscle group")
	}
	return err
}

// AutocompleteResult is the compact exercise view used by the autocomplete widget.
type AutocompleteResult struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
}
