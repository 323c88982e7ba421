package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelQuery reports whether the schema already exists.
const sentinelQuery = "SELECT to_regclass('public.company') IS NOT NULL"

var steps = []migrationStep{
	{
		Name: "create_table_company",
		SQL: `CREATE TABLE IF NOT EXISTS company (
  id                   BIGINT       GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
  legal_name           VARCHAR(255),
  document_type        VARCHAR(20),
  document_number      VARCHAR(20),
  tax_condition        VARCHAR(50),
  address              VARCHAR(255),
  district             VARCHAR(100),
  province             VARCHAR(100),
  department           VARCHAR(100),
  is_withholding_agent BOOLEAN,
  status               SMALLINT     NOT NULL CHECK (status IN (0, 1)),
  created_by           VARCHAR(50)  NOT NULL,
  created_at           TIMESTAMPTZ  NOT NULL,
  modified_by          VARCHAR(50),
  modified_at          TIMESTAMPTZ,
  deleted_by           VARCHAR(50),
  deleted_at           TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_company_document_number",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_company_document_number ON company (document_number);`,
	},
	{
		Name: "create_index_company_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_company_status ON company (status);`,
	},
}

// EnsureMigrated checks if the 'company' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Err(err).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()

	return nil
}
