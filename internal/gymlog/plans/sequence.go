package plans

import (
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog"
)

// validateSequence checks that proposed is a permutation of current: same length,
// same members, no duplicates.
func validateSequence(current, proposed []int) error {
	if len(proposed) != len(current) {
		return fmt.Errorf("expected %d ids, got %d: %w", len(current), len(proposed), gymlog.ErrInvalidSequence)
	}

	remaining := make(map[int]struct{}, len(current))
	for _, id := range current {
		remaining[id] = struct{}{}
	}
	for _, id := range proposed {
		if _, ok := remaining[id]; !ok {
			return fmt.Errorf("id %d is unknown or repeated: %w", id, gymlog.ErrInvalidSequence)
		}
		delete(remaining, id)
	}

	return nil
}
