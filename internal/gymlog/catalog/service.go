package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/pkg"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	AutocompleteMinQueryLen = 2
	AutocompleteLimit       = 10

	autocompleteCachePrefix = "ac|"
	exerciseNameConstraint  = "exercise_name_key"
)

//go:generate mockgen -source=$GOFILE -destination=catalog_mocks_test.go -package=catalog_test

type exercisesRepo interface {
	Add(ctx context.Context, params AddParams) (_ *Exercise, err error)
	Get(ctx context.Context, id int) (_ *Exercise, err error)
	List(ctx context.Context, muscleGroup MuscleGroup) (_ []Exercise, err error)
	Search(ctx context.Context, query string, limit int) (_ []Exercise, err error)
	Seed(ctx context.Context, exercises []AddParams) (created int, err error)
}

type Service struct {
	repo     exercisesRepo
	cache    *freecache.Cache
	cacheTTL int
}

// NewService creates the catalog service. A nil cache disables autocomplete caching.
func NewService(repo exercisesRepo, cache *freecache.Cache, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: int(cacheTTL.Seconds()),
	}
}

// Autocomplete returns at most AutocompleteLimit exercises whose name contains the query.
// Queries shorter than AutocompleteMinQueryLen after trimming return an empty list
// without reaching the repository.
func (s *Service) Autocomplete(ctx context.Context, query string) ([]AutocompleteResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < AutocompleteMinQueryLen {
		return []AutocompleteResult{}, nil
	}

	cacheKey := []byte(autocompleteCachePrefix + strings.ToLower(query))
	if cached, ok := s.cached(cacheKey); ok {
		return cached, nil
	}

	exercises, err := s.repo.Search(ctx, query, AutocompleteLimit)
	if err != nil {
		return nil, fmt.Errorf("search exercises: %w", err)
	}

	results := make([]AutocompleteResult, 0, len(exercises))
	for _, e := range exercises {
		results = append(results, AutocompleteResult{
			ID:          e.ID,
			Name:        e.Name,
			MuscleGroup: e.MuscleGroup.Label(),
		})
	}

	s.store(cacheKey, results)
	return results, nil
}

func (s *Service) cached(key []byte) ([]AutocompleteResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(key)
	if err != nil {
		return nil, false
	}
	var results []AutocompleteResult
	if err := json.Unmarshal(raw, &results); err != nil {
		log.Warnf("autocomplete cache, unmarshal [%s]: %s", pkg.BytesToString(key), err)
		return nil, false
	}
	return results, true
}

func (s *Service) store(key []byte, results []AutocompleteResult) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(results)
	if err != nil {
		log.Warnf("autocomplete cache, marshal: %s", err)
		return
	}
	if err := s.cache.Set(key, raw, s.cacheTTL); err != nil {
		log.Warnf("autocomplete cache, set [%s]: %s", pkg.BytesToString(key), err)
	}
}

func (s *Service) Add(ctx context.Context, params AddParams) (*Exercise, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.MuscleGroup = MuscleGroup(strings.ToLower(string(params.MuscleGroup)))
	if err := params.Validate(); err != nil {
		return nil, err
	}

	exercise, err := s.repo.Add(ctx, params)
	if err != nil {
		if pkg.IsUniqueViolationError(err) && pkg.ConstraintName(err) == exerciseNameConstraint {
			return nil, gymlog.NewValidationError("name", "an exercise with this name already exists")
		}
		return nil, fmt.Errorf("add exercise: %w", err)
	}

	if s.cache != nil {
		s.cache.Clear()
	}

	return exercise, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Exercise, error) {
	return s.repo.Get(ctx, id)
}

// List returns the catalog, optionally restricted to one muscle group.
func (s *Service) List(ctx context.Context, muscleGroup MuscleGroup) ([]Exercise, error) {
	if muscleGroup != "" && !muscleGroup.IsValid() {
		return nil, gymlog.NewValidationError("muscleGroup", "unknown muscle group")
	}
	return s.repo.List(ctx, muscleGroup)
}

// Seed adds the given exercises, leaving the ones whose names already exist untouched.
func (s *Service) Seed(ctx context.Context, exercises []AddParams) (created, skipped int, err error) {
	for i, e := range exercises {
		if err := e.Validate(); err != nil {
			return 0, 0, fmt.Errorf("seed exercise %d [%s]: %w", i, e.Name, err)
		}
	}

	created, err = s.repo.Seed(ctx, exercises)
	if err != nil {
		return 0, 0, fmt.Errorf("seed exercises: %w", err)
	}

	if created > 0 && s.cache != nil {
		s.cache.Clear()
	}

	return created, len(exercises) - created, nil
}
