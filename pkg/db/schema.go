package db

import (
	"context"
	"fmt"
)

// schema is idempotent, it runs on every start.
const schema = `
CREATE TABLE IF NOT EXISTS smart_switches (
	id          UUID PRIMARY KEY,
	name        VARCHAR(100) NOT NULL UNIQUE,
	ip_address  VARCHAR(255) NOT NULL UNIQUE,
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS power_checks (
	id            BIGSERIAL PRIMARY KEY,
	switch_id     UUID NOT NULL REFERENCES smart_switches(id) ON DELETE CASCADE,
	is_online     BOOLEAN NOT NULL,
	response_ms   DOUBLE PRECISION,
	error_message TEXT,
	failure_kind  VARCHAR(32),
	checked_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_power_checks_switch_time ON power_checks (switch_id, checked_at);
CREATE INDEX IF NOT EXISTS idx_power_checks_time ON power_checks (checked_at);

CREATE TABLE IF NOT EXISTS power_outages (
	id                UUID PRIMARY KEY,
	started_at        TIMESTAMPTZ NOT NULL,
	ended_at          TIMESTAMPTZ,
	duration_seconds  BIGINT,
	switches_affected JSONB NOT NULL DEFAULT '[]'::jsonb,
	is_ongoing        BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_power_outages_time_status ON power_outages (started_at, is_ongoing);
CREATE UNIQUE INDEX IF NOT EXISTS uq_power_outages_single_ongoing ON power_outages (is_ongoing) WHERE is_ongoing;
`

func Migrate(ctx context.Context, conn DBTX) error {
	if _, err := conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
