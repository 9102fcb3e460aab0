package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
)

type ValueRepo struct {
	pool *pgxpool.Pool
}

func NewValueRepo(pool *pgxpool.Pool) *ValueRepo {
	return &ValueRepo{pool: pool}
}

func (r *ValueRepo) videoExists(ctx context.Context, tx pgx.Tx, videoID string) error {
	var exists bool
	var err error
	query := `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`
	if tx != nil {
		err = tx.QueryRow(ctx, query, videoID).Scan(&exists)
	} else {
		err = r.pool.QueryRow(ctx, query, videoID).Scan(&exists)
	}
	if err != nil {
		return err
	}
	if !exists {
		return model.NewNotFound("video", videoID)
	}
	return nil
}

// SetValues records a batch of values for a video. Every entry is validated
// against its field's current type and config before anything is written;
// the first failure aborts the whole batch.
func (r *ValueRepo) SetValues(ctx context.Context, videoID string, entries []model.SetValueEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.videoExists(ctx, tx, videoID); err != nil {
		return err
	}

	// Validate the full batch first; writes come after.
	fields := make(map[string]*model.CustomField, len(entries))
	for _, e := range entries {
		if e.FieldID == "" {
			return model.NewValidation("fieldId", "fieldId is required")
		}
		field, ok := fields[e.FieldID]
		if !ok {
			field, err = scanField(tx.QueryRow(ctx, `
				SELECT `+fieldColumns+` FROM custom_fields WHERE id = $1`,
				e.FieldID))
			if errors.Is(err, pgx.ErrNoRows) {
				return model.NewNotFound("field", e.FieldID)
			}
			if err != nil {
				return err
			}
			fields[e.FieldID] = field
		}
		if err := model.CheckValue(field.FieldType, field.Config, e.Value); err != nil {
			return err
		}
	}

	for _, e := range entries {
		value := e.Value
		if len(value) == 0 {
			value = []byte("null")
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO video_field_values (video_id, field_id, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (video_id, field_id) DO UPDATE
			SET value = EXCLUDED.value, updated_at = NOW()`,
			videoID, e.FieldID, value)
		if err != nil {
			return err
		}
	}

	if err := notifyVideosChanged(ctx, tx, []string{videoID}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetRowsForVideo returns every schema/field association reachable through
// the video's tags, joined with any recorded value. One row per (schema,
// field) pair; the service merges duplicates into the final view. Rows are
// ordered so the earliest-created schema comes first, which is what makes
// the merge's tie-break deterministic.
func (r *ValueRepo) GetRowsForVideo(ctx context.Context, videoID string) ([]model.VideoFieldRow, error) {
	if err := r.videoExists(ctx, nil, videoID); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT
		       cf.id, cf.name, cf.field_type, cf.config,
		       fs.id, fs.name, fs.created_at,
		       sf.display_order, sf.show_on_card,
		       v.value, v.updated_at
		FROM video_tags vt
		JOIN tag_schemas ts ON ts.tag_id = vt.tag_id
		JOIN field_schemas fs ON fs.id = ts.schema_id
		JOIN schema_fields sf ON sf.schema_id = fs.id
		JOIN custom_fields cf ON cf.id = sf.field_id
		LEFT JOIN video_field_values v
		       ON v.field_id = cf.id AND v.video_id = vt.video_id
		WHERE vt.video_id = $1
		ORDER BY fs.created_at, fs.id, sf.display_order`,
		videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.VideoFieldRow
	for rows.Next() {
		var row model.VideoFieldRow
		err := rows.Scan(
			&row.FieldID, &row.FieldName, &row.FieldType, &row.Config,
			&row.SchemaID, &row.SchemaName, &row.SchemaCreatedAt,
			&row.DisplayOrder, &row.ShowOnCard,
			&row.Value, &row.ValueUpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
