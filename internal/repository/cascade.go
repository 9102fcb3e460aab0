package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Deletion rules differ by relationship and every delete path goes through
// this file so the rules cannot drift apart:
//
//   - deleting a field cascades to its recorded values but is blocked while
//     any schema still references it;
//   - deleting a schema removes its associations only, never the referenced
//     fields or their values;
//   - removing a field from a schema removes the association row only.

// countFieldReferences returns how many schema associations reference the field.
func countFieldReferences(ctx context.Context, tx pgx.Tx, fieldID string) (int, error) {
	var n int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM schema_fields WHERE field_id = $1`, fieldID).Scan(&n)
	return n, err
}

// deleteFieldValues removes every recorded value of the field and returns
// the ids of the videos that carried one, so callers can invalidate caches.
func deleteFieldValues(ctx context.Context, tx pgx.Tx, fieldID string) ([]string, error) {
	rows, err := tx.Query(ctx,
		`DELETE FROM video_field_values WHERE field_id = $1 RETURNING video_id`, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videoIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		videoIDs = append(videoIDs, id)
	}
	return videoIDs, rows.Err()
}

// deleteSchemaAssociations removes all of a schema's association rows.
func deleteSchemaAssociations(ctx context.Context, tx pgx.Tx, schemaID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM schema_fields WHERE schema_id = $1`, schemaID)
	return err
}

// notifyVideosChanged emits a field_changes notification per affected video
// so the cache invalidation worker drops stale union-query entries.
func notifyVideosChanged(ctx context.Context, tx pgx.Tx, videoIDs []string) error {
	for _, id := range videoIDs {
		if _, err := tx.Exec(ctx, `SELECT pg_notify('field_changes', $1)`, id); err != nil {
			return err
		}
	}
	return nil
}

// notifySchemaVideos resolves every video reachable through the tags bound
// to the schema and emits a field_changes notification for each. Called
// after any composition change so cached union views are refreshed.
func notifySchemaVideos(ctx context.Context, tx pgx.Tx, schemaID string) error {
	rows, err := tx.Query(ctx, `
		SELECT DISTINCT vt.video_id
		FROM tag_schemas ts
		JOIN video_tags vt ON vt.tag_id = ts.tag_id
		WHERE ts.schema_id = $1`,
		schemaID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var videoIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		videoIDs = append(videoIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return notifyVideosChanged(ctx, tx, videoIDs)
}
