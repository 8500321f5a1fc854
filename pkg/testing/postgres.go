package testing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/2beens/gymlog/internal/db"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

const (
	testDBName     = "gymlog_test"
	testDBPassword = "postgres"
)

var (
	pgOnce     sync.Once
	pgParams   db.NewDBPoolParams
	pgSetupErr error
)

// GetPostgresPool returns a pool connected to a migrated, empty gymlog database.
// POSTGRES_HOST (and optionally POSTGRES_PORT, POSTGRES_PASSWORD) selects an existing
// server; otherwise a postgres container is started through dockertest and kept for
// the lifetime of the test binary.
func GetPostgresPool(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	pgOnce.Do(func() {
		pgParams, pgSetupErr = postgresParams()
	})
	require.NoError(t, pgSetupErr)

	pool, err := db.NewDBPool(ctx, pgParams)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))

	_, err = pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(db.Tables, ", ")))
	require.NoError(t, err)

	return ctx, pool
}

func postgresParams() (db.NewDBPoolParams, error) {
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		port := os.Getenv("POSTGRES_PORT")
		if port == "" {
			port = "5432"
		}
		password := os.Getenv("POSTGRES_PASSWORD")
		if password == "" {
			password = testDBPassword
		}
		return db.NewDBPoolParams{
			DBHost:     host,
			DBPort:     port,
			DBName:     testDBName,
			DBPassword: password,
			SSLMode:    "disable",
		}, nil
	}

	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		return db.NewDBPoolParams{}, fmt.Errorf("could not create new dockertest pool: %w", err)
	}
	if err := dockerPool.Client.Ping(); err != nil {
		return db.NewDBPoolParams{}, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	pgResource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=" + testDBPassword,
			"POSTGRES_DB=" + testDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return db.NewDBPoolParams{}, fmt.Errorf("dockerpool run postgres: %w", err)
	}
	// the container is reaped by docker if the test binary dies before purging it
	if err := pgResource.Expire(600); err != nil {
		return db.NewDBPoolParams{}, fmt.Errorf("set postgres container expiry: %w", err)
	}

	params := db.NewDBPoolParams{
		DBHost:     "localhost",
		DBPort:     pgResource.GetPort("5432/tcp"),
		DBName:     testDBName,
		DBPassword: testDBPassword,
		SSLMode:    "disable",
	}

	dockerPool.MaxWait = time.Minute
	if err := dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool, err := db.NewDBPool(ctx, params)
		if err != nil {
			return err
		}
		defer pool.Close()
		return pool.Ping(ctx)
	}); err != nil {
		return db.NewDBPoolParams{}, fmt.Errorf("wait for postgres: %w", err)
	}

	return params, nil
}

// InsertUser creates a user row with a random name and returns its id.
func InsertUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool) int {
	t.Helper()

	var id int
	err := pool.QueryRow(
		ctx,
		`INSERT INTO gymlog_user (username, password_hash) VALUES ($1, 'x') RETURNING id`,
		gofakeit.Username()+gofakeit.DigitN(6),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertExercise creates a catalog exercise with a random name and returns its id.
func InsertExercise(t *testing.T, ctx context.Context, pool *pgxpool.Pool, muscleGroup string) int {
	t.Helper()

	var id int
	err := pool.QueryRow(
		ctx,
		`INSERT INTO exercise (name, muscle_group) VALUES ($1, $2) RETURNING id`,
		gofakeit.LetterN(10)+" "+gofakeit.DigitN(4),
		muscleGroup,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
