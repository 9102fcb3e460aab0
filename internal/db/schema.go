package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ddl is the idempotent schema bootstrap. lists, videos, tags, video_tags,
// and tag_schemas belong to the surrounding application and are read-only
// for this service; they are created here too so a dev instance boots
// standalone.
//
// schema_fields.field_id and video_field_values.field_id deliberately carry
// no ON DELETE CASCADE: field deletion is blocked or cascaded in
// repository code so the divergent rules live in one place.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS lists (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		list_id UUID NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		youtube_id VARCHAR(16),
		title TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		list_id UUID NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS video_tags (
		video_id UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
		tag_id UUID NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (video_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS custom_fields (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		list_id UUID NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		field_type VARCHAR(16) NOT NULL,
		config JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_custom_fields_list_name
		ON custom_fields (list_id, LOWER(name))`,
	`CREATE TABLE IF NOT EXISTS field_schemas (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		list_id UUID NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS schema_fields (
		schema_id UUID NOT NULL REFERENCES field_schemas(id) ON DELETE CASCADE,
		field_id UUID NOT NULL REFERENCES custom_fields(id),
		display_order INTEGER NOT NULL DEFAULT 0,
		show_on_card BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (schema_id, field_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tag_schemas (
		tag_id UUID NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		schema_id UUID NOT NULL REFERENCES field_schemas(id) ON DELETE CASCADE,
		PRIMARY KEY (tag_id, schema_id)
	)`,
	`CREATE TABLE IF NOT EXISTS video_field_values (
		video_id UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
		field_id UUID NOT NULL REFERENCES custom_fields(id),
		value JSONB,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (video_id, field_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_video_field_values_field
		ON video_field_values (field_id)`,
	`CREATE INDEX IF NOT EXISTS idx_schema_fields_field
		ON schema_fields (field_id)`,
}

// EnsureSchema applies the bootstrap DDL. Safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	log.Println("database schema ensured")
	return nil
}
