package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
)

type FieldRepo struct {
	pool *pgxpool.Pool
}

func NewFieldRepo(pool *pgxpool.Pool) *FieldRepo {
	return &FieldRepo{pool: pool}
}

const fieldColumns = `id, list_id, name, field_type, config, created_at, updated_at`

func scanField(row pgx.Row) (*model.CustomField, error) {
	var f model.CustomField
	err := row.Scan(&f.ID, &f.ListID, &f.Name, &f.FieldType, &f.Config,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// isUniqueViolation reports whether err is a Postgres unique-index violation.
// The duplicate-name pre-check runs first, but two concurrent creates can
// both pass it; the unique index on (list_id, lower(name)) is the backstop.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new field. The config must already be validated and in
// canonical encoding. Fails with Conflict on a duplicate name.
func (r *FieldRepo) Create(ctx context.Context, listID, name string, fieldType model.FieldType, config json.RawMessage) (*model.CustomField, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var existing string
	err = tx.QueryRow(ctx, `
		SELECT id FROM custom_fields
		WHERE list_id = $1 AND LOWER(name) = LOWER($2)`,
		listID, name).Scan(&existing)
	if err == nil {
		return nil, model.NewConflict(model.CodeDuplicateName,
			fmt.Sprintf("a field named %q already exists in this list", name))
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	field, err := scanField(tx.QueryRow(ctx, `
		INSERT INTO custom_fields (list_id, name, field_type, config)
		VALUES ($1, $2, $3, $4)
		RETURNING `+fieldColumns,
		listID, name, fieldType, config))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.NewConflict(model.CodeDuplicateName,
				fmt.Sprintf("a field named %q already exists in this list", name))
		}
		return nil, err
	}

	return field, tx.Commit(ctx)
}

// Update applies a partial update. When the field type changes, whichever
// config is in effect after the patch is revalidated against the new type;
// when only the config changes, it is validated against the current type.
func (r *FieldRepo) Update(ctx context.Context, fieldID string, req model.UpdateFieldRequest) (*model.CustomField, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := scanField(tx.QueryRow(ctx, `
		SELECT `+fieldColumns+` FROM custom_fields WHERE id = $1 FOR UPDATE`,
		fieldID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("field", fieldID)
	}
	if err != nil {
		return nil, err
	}

	name := current.Name
	if req.Name != nil {
		name = *req.Name
	}
	fieldType := current.FieldType
	if req.FieldType != nil {
		fieldType = *req.FieldType
	}
	config := current.Config
	if req.Config != nil {
		config = req.Config
	}

	// Revalidate the effective config against the effective type whenever
	// either changed, and store the canonical encoding.
	if req.FieldType != nil || req.Config != nil {
		cfg, err := model.ParseFieldConfig(fieldType, config)
		if err != nil {
			return nil, err
		}
		config = model.EncodeFieldConfig(cfg)
	}

	if req.Name != nil && name != current.Name {
		var existing string
		err = tx.QueryRow(ctx, `
			SELECT id FROM custom_fields
			WHERE list_id = $1 AND LOWER(name) = LOWER($2) AND id != $3`,
			current.ListID, name, fieldID).Scan(&existing)
		if err == nil {
			return nil, model.NewConflict(model.CodeDuplicateName,
				fmt.Sprintf("a field named %q already exists in this list", name))
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	updated, err := scanField(tx.QueryRow(ctx, `
		UPDATE custom_fields
		SET name = $1, field_type = $2, config = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+fieldColumns,
		name, fieldType, config, fieldID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.NewConflict(model.CodeDuplicateName,
				fmt.Sprintf("a field named %q already exists in this list", name))
		}
		return nil, err
	}

	return updated, tx.Commit(ctx)
}

// Delete removes a field, cascading to its recorded values. Blocked with
// Conflict while any schema still references the field. Returns the ids of
// videos that lost a value so the caller can invalidate caches.
func (r *FieldRepo) Delete(ctx context.Context, fieldID string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `SELECT id FROM custom_fields WHERE id = $1 FOR UPDATE`,
		fieldID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("field", fieldID)
	}
	if err != nil {
		return nil, err
	}

	refs, err := countFieldReferences(ctx, tx, fieldID)
	if err != nil {
		return nil, err
	}
	if refs > 0 {
		return nil, model.NewConflict(model.CodeFieldInUse,
			fmt.Sprintf("field is referenced by %d schema(s); remove it from them first", refs))
	}

	videoIDs, err := deleteFieldValues(ctx, tx, fieldID)
	if err != nil {
		return nil, err
	}
	if err := notifyVideosChanged(ctx, tx, videoIDs); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM custom_fields WHERE id = $1`, fieldID); err != nil {
		return nil, err
	}

	return videoIDs, tx.Commit(ctx)
}

// CheckDuplicate is the case-insensitive existence probe behind the
// interactive name check. Returns the colliding field, or nil.
func (r *FieldRepo) CheckDuplicate(ctx context.Context, listID, name string) (*model.CustomField, error) {
	field, err := scanField(r.pool.QueryRow(ctx, `
		SELECT `+fieldColumns+` FROM custom_fields
		WHERE list_id = $1 AND LOWER(name) = LOWER($2)`,
		listID, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return field, nil
}

// GetByID returns a single field.
func (r *FieldRepo) GetByID(ctx context.Context, fieldID string) (*model.CustomField, error) {
	field, err := scanField(r.pool.QueryRow(ctx, `
		SELECT `+fieldColumns+` FROM custom_fields WHERE id = $1`, fieldID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("field", fieldID)
	}
	if err != nil {
		return nil, err
	}
	return field, nil
}

// ListByList returns all fields of a list, oldest first.
func (r *FieldRepo) ListByList(ctx context.Context, listID string) ([]model.CustomField, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+fieldColumns+` FROM custom_fields
		WHERE list_id = $1
		ORDER BY created_at, id`,
		listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []model.CustomField
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, *f)
	}
	return fields, rows.Err()
}

// GetListStats aggregates field, schema, and value counts for a list.
func (r *FieldRepo) GetListStats(ctx context.Context, listID string) (*model.ListStats, error) {
	stats := &model.ListStats{
		ListID:       listID,
		FieldsByType: make(map[model.FieldType]int),
	}

	rows, err := r.pool.Query(ctx, `
		SELECT field_type, COUNT(*)
		FROM custom_fields
		WHERE list_id = $1
		GROUP BY field_type`,
		listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ft model.FieldType
		var n int
		if err := rows.Scan(&ft, &n); err != nil {
			return nil, err
		}
		stats.FieldsByType[ft] = n
		stats.TotalFields += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM field_schemas WHERE list_id = $1`, listID).
		Scan(&stats.TotalSchemas)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM video_field_values v
		JOIN custom_fields cf ON cf.id = v.field_id
		WHERE cf.list_id = $1`,
		listID).Scan(&stats.RecordedValues)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
