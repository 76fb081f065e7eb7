//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema mirrors the DDL documented on each PostgresStore.
const schema = `
CREATE TABLE attendees (
    id            UUID PRIMARY KEY,
    event_id      UUID NOT NULL,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL DEFAULT '',
    organization  TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    notes         TEXT NOT NULL DEFAULT '',
    is_vendor     BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX attendees_event_idx ON attendees (event_id, created_at);

CREATE TABLE checkin_scans (
    id           UUID PRIMARY KEY,
    event_id     UUID NOT NULL,
    attendee_id  UUID NOT NULL REFERENCES attendees (id),
    desk_key_id  UUID NOT NULL,
    device       TEXT NOT NULL DEFAULT '',
    scanned_at   TIMESTAMPTZ NOT NULL,
    UNIQUE (event_id, attendee_id)
);

CREATE TABLE desk_keys (
    id         UUID PRIMARY KEY,
    event_id   UUID NOT NULL,
    label      TEXT NOT NULL,
    key_hash   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE booths (
    id       UUID PRIMARY KEY,
    event_id UUID NOT NULL,
    label    TEXT NOT NULL,
    capacity INTEGER NOT NULL,
    seq      BIGSERIAL
);

CREATE TABLE booth_assignments (
    booth_id    UUID NOT NULL REFERENCES booths (id),
    attendee_id UUID NOT NULL REFERENCES attendees (id),
    assigned_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (booth_id, attendee_id)
);

CREATE TABLE feature_catalog (
    id  UUID PRIMARY KEY,
    key TEXT NOT NULL UNIQUE
);

CREATE TABLE plans (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE plan_features (
    plan_id    UUID NOT NULL REFERENCES plans (id),
    catalog_id UUID NOT NULL REFERENCES feature_catalog (id),
    PRIMARY KEY (plan_id, catalog_id)
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the schema
// applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("eventdesk"),
		tcpostgres.WithUsername("eventdesk"),
		tcpostgres.WithPassword("eventdesk"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// Cleanup is deferred to Ryuk; the container is shared across suites.

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// TruncateTables empties the given tables and cascades to dependents.
// Use between tests to ensure isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx,
		fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	return err
}
