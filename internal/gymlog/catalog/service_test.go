package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/gymlog/catalog"

	"github.com/coocood/freecache"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestService_Autocomplete_ShortQueryDoesNotTouchRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	// no expectations: any repo call fails the test
	service := catalog.NewService(repo, nil, time.Minute)

	for _, q := range []string{"", "b", "  b  ", "ž"} {
		results, err := service.Autocomplete(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestService_Autocomplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	service := catalog.NewService(repo, nil, time.Minute)

	repo.EXPECT().
		Search(gomock.Any(), "BEN", catalog.AutocompleteLimit).
		Return([]catalog.Exercise{
			{ID: 1, Name: "Bench Press", MuscleGroup: catalog.MuscleGroupChest},
			{ID: 7, Name: "Bulgarian Split Squat Bench", MuscleGroup: catalog.MuscleGroupFullBody},
		}, nil)

	results, err := service.Autocomplete(context.Background(), "  BEN ")
	require.NoError(t, err)
	assert.Equal(t, []catalog.AutocompleteResult{
		{ID: 1, Name: "Bench Press", MuscleGroup: "Chest"},
		{ID: 7, Name: "Bulgarian Split Squat Bench", MuscleGroup: "Full Body"},
	}, results)
}

func TestService_Autocomplete_Cached(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	cache := freecache.NewCache(512 * 1024)
	service := catalog.NewService(repo, cache, time.Minute)

	repo.EXPECT().
		Search(gomock.Any(), "curl", catalog.AutocompleteLimit).
		Return([]catalog.Exercise{{ID: 3, Name: "Hammer Curl", MuscleGroup: catalog.MuscleGroupBiceps}}, nil).
		Times(1)

	first, err := service.Autocomplete(context.Background(), "curl")
	require.NoError(t, err)
	// different case hits the same cache entry
	second, err := service.Autocomplete(context.Background(), "CURL")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "Biceps", second[0].MuscleGroup)
}

func TestService_Autocomplete_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	service := catalog.NewService(repo, nil, time.Minute)

	repo.EXPECT().Search(gomock.Any(), "row", catalog.AutocompleteLimit).Return(nil, errors.New("db down"))

	results, err := service.Autocomplete(context.Background(), "row")
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestService_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	cache := freecache.NewCache(512 * 1024)
	service := catalog.NewService(repo, cache, time.Minute)
	require.NoError(t, cache.Set([]byte("ac|pre"), []byte("[]"), 60))

	userID := 4
	repo.EXPECT().
		Add(gomock.Any(), catalog.AddParams{
			Name:        "Zercher Squat",
			MuscleGroup: catalog.MuscleGroupLegs,
			Description: "bar in the elbows",
			CreatedBy:   &userID,
		}).
		Return(&catalog.Exercise{ID: 50, Name: "Zercher Squat", MuscleGroup: catalog.MuscleGroupLegs}, nil)

	exercise, err := service.Add(context.Background(), catalog.AddParams{
		Name:        "  Zercher Squat ",
		MuscleGroup: "LEGS",
		Description: "bar in the elbows",
		CreatedBy:   &userID,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, exercise.ID)
	assert.Equal(t, int64(0), cache.EntryCount())
}

func TestService_Add_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	service := catalog.NewService(repo, nil, time.Minute)

	_, err := service.Add(context.Background(), catalog.AddParams{Name: "", MuscleGroup: "neck"})
	vErr, ok := gymlog.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "this field is required", vErr.Fields["name"])
	assert.Equal(t, "unknown muscle group", vErr.Fields["muscleGroup"])
}

func TestService_Add_DuplicateName(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	service := catalog.NewService(repo, nil, time.Minute)

	repo.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		Return(nil, &pgconn.PgError{Code: "23505", ConstraintName: "exercise_name_key"})

	_, err := service.Add(context.Background(), catalog.AddParams{Name: "Bench Press", MuscleGroup: catalog.MuscleGroupChest})
	vErr, ok := gymlog.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "name")
}

func TestService_List_UnknownMuscleGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	service := catalog.NewService(repo, nil, time.Minute)

	_, err := service.List(context.Background(), "neck")
	_, ok := gymlog.IsValidationError(err)
	assert.True(t, ok)

	repo.EXPECT().List(gomock.Any(), catalog.MuscleGroupBack).Return([]catalog.Exercise{{ID: 2}}, nil)
	exercises, err := service.List(context.Background(), catalog.MuscleGroupBack)
	require.NoError(t, err)
	assert.Len(t, exercises, 1)
}

func TestService_Seed(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	service := catalog.NewService(repo, nil, time.Minute)

	repo.EXPECT().Seed(gomock.Any(), catalog.DefaultExercises).Return(5, nil)

	created, skipped, err := service.Seed(context.Background(), catalog.DefaultExercises)
	require.NoError(t, err)
	assert.Equal(t, 5, created)
	assert.Equal(t, len(catalog.DefaultExercises)-5, skipped)
}

func TestService_Seed_InvalidEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockexercisesRepo(ctrl)
	service := catalog.NewService(repo, nil, time.Minute)

	_, _, err := service.Seed(context.Background(), []catalog.AddParams{{Name: "Neck Curl", MuscleGroup: "neck"}})
	require.Error(t, err)
	_, ok := gymlog.IsValidationError(err)
	assert.True(t, ok)
}
