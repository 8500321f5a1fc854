package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Migrate creates the gymlog schema if it does not exist yet. Safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	log.Debugln("db schema up to date")
	return nil
}

// Tables lists the gymlog tables, in dependency order.
var Tables = []string{
	"gymlog_user",
	"exercise",
	"workout_plan",
	"planned_exercise",
	"exercise_log",
}

const schema = `
CREATE TABLE IF NOT EXISTS gymlog_user (
    id            BIGSERIAL PRIMARY KEY,
    username      VARCHAR(150) NOT NULL UNIQUE,
    password_hash TEXT         NOT NULL,
    created_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS exercise (
    id           BIGSERIAL PRIMARY KEY,
    name         VARCHAR(100) NOT NULL,
    muscle_group VARCHAR(20)  NOT NULL,
    description  TEXT         NOT NULL DEFAULT '',
    created_by   BIGINT       REFERENCES gymlog_user (id) ON DELETE SET NULL,
    created_at   TIMESTAMPTZ  NOT NULL DEFAULT now(),
    CONSTRAINT exercise_name_key UNIQUE (name)
);
CREATE INDEX IF NOT EXISTS ix_exercise_muscle_group_name ON exercise (muscle_group, name);

CREATE TABLE IF NOT EXISTS workout_plan (
    id          BIGSERIAL PRIMARY KEY,
    user_id     BIGINT       NOT NULL REFERENCES gymlog_user (id) ON DELETE CASCADE,
    name        VARCHAR(100) NOT NULL,
    description TEXT         NOT NULL DEFAULT '',
    is_active   BOOLEAN      NOT NULL DEFAULT false,
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_workout_plan_user_created ON workout_plan (user_id, created_at DESC);
CREATE UNIQUE INDEX IF NOT EXISTS ux_workout_plan_one_active ON workout_plan (user_id) WHERE is_active;

CREATE TABLE IF NOT EXISTS planned_exercise (
    id          BIGSERIAL PRIMARY KEY,
    plan_id     BIGINT       NOT NULL REFERENCES workout_plan (id) ON DELETE CASCADE,
    exercise_id BIGINT       NOT NULL REFERENCES exercise (id) ON DELETE CASCADE,
    target_sets SMALLINT     NOT NULL CHECK (target_sets >= 1),
    target_reps SMALLINT     NOT NULL CHECK (target_reps >= 1),
    sort_order  INTEGER      NOT NULL CHECK (sort_order >= 0),
    notes       VARCHAR(200) NOT NULL DEFAULT '',
    CONSTRAINT planned_exercise_plan_exercise_key UNIQUE (plan_id, exercise_id),
    CONSTRAINT planned_exercise_plan_order_key UNIQUE (plan_id, sort_order) DEFERRABLE INITIALLY DEFERRED
);

CREATE TABLE IF NOT EXISTS exercise_log (
    id          BIGSERIAL PRIMARY KEY,
    user_id     BIGINT        NOT NULL REFERENCES gymlog_user (id) ON DELETE CASCADE,
    exercise_id BIGINT        NOT NULL REFERENCES exercise (id) ON DELETE CASCADE,
    date        DATE          NOT NULL,
    sets        SMALLINT      NOT NULL CHECK (sets >= 1),
    reps        SMALLINT      NOT NULL CHECK (reps >= 1),
    weight      NUMERIC(6, 2) NOT NULL CHECK (weight >= 0),
    one_rm      NUMERIC(8, 2) NOT NULL CHECK (one_rm >= 0),
    notes       TEXT          NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ   NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_exercise_log_user_exercise_date ON exercise_log (user_id, exercise_id, date DESC);
`
