package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
)

type SchemaRepo struct {
	pool *pgxpool.Pool
}

func NewSchemaRepo(pool *pgxpool.Pool) *SchemaRepo {
	return &SchemaRepo{pool: pool}
}

const schemaColumns = `id, list_id, name, description, created_at, updated_at`

func scanSchema(row pgx.Row) (*model.FieldSchema, error) {
	var s model.FieldSchema
	err := row.Scan(&s.ID, &s.ListID, &s.Name, &s.Description,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// lockSchema loads the schema row FOR UPDATE. Every composition write locks
// the schema first so the count-then-insert checks on its associations are
// never interleaved by another writer on the same schema.
func lockSchema(ctx context.Context, tx pgx.Tx, schemaID string) (*model.FieldSchema, error) {
	schema, err := scanSchema(tx.QueryRow(ctx, `
		SELECT `+schemaColumns+` FROM field_schemas WHERE id = $1 FOR UPDATE`,
		schemaID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("schema", schemaID)
	}
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// addFieldTx performs one field association inside an already-open
// transaction holding the schema lock. Shared by AddField and CreateSchema
// so initial fields go through the identical rules.
func addFieldTx(ctx context.Context, tx pgx.Tx, schema *model.FieldSchema, req model.AddSchemaFieldRequest) (*model.SchemaField, error) {
	field, err := scanField(tx.QueryRow(ctx, `
		SELECT `+fieldColumns+` FROM custom_fields WHERE id = $1`,
		req.FieldID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("field", req.FieldID)
	}
	if err != nil {
		return nil, err
	}

	// A field from another list is invisible to this schema.
	if field.ListID != schema.ListID {
		return nil, model.NewNotFound("field", req.FieldID)
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM schema_fields WHERE schema_id = $1 AND field_id = $2)`,
		schema.ID, req.FieldID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewConflict(model.CodeDuplicateField,
			"field is already part of this schema")
	}

	if req.ShowOnCard {
		if err := checkCardLimit(ctx, tx, schema.ID, ""); err != nil {
			return nil, err
		}
	}

	displayOrder := 0
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	} else {
		// Append after the current maximum; 0 for an empty schema.
		err = tx.QueryRow(ctx, `
			SELECT COALESCE(MAX(display_order) + 1, 0)
			FROM schema_fields WHERE schema_id = $1`,
			schema.ID).Scan(&displayOrder)
		if err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO schema_fields (schema_id, field_id, display_order, show_on_card)
		VALUES ($1, $2, $3, $4)`,
		schema.ID, req.FieldID, displayOrder, req.ShowOnCard)
	if err != nil {
		return nil, err
	}

	return &model.SchemaField{
		SchemaID:     schema.ID,
		FieldID:      req.FieldID,
		DisplayOrder: displayOrder,
		ShowOnCard:   req.ShowOnCard,
		Field:        field,
	}, nil
}

// checkCardLimit enforces the featured cap. excludeFieldID is skipped from
// the count when a toggle re-checks the cap for an existing row; it is empty
// on the add path, where no association exists yet.
func checkCardLimit(ctx context.Context, tx pgx.Tx, schemaID, excludeFieldID string) error {
	var featured int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM schema_fields
		WHERE schema_id = $1 AND show_on_card = TRUE
		  AND ($2::uuid IS NULL OR field_id != $2)`,
		schemaID, cardLimitExclude(excludeFieldID)).Scan(&featured)
	if err != nil {
		return err
	}
	if featured >= model.MaxShowOnCard {
		return model.NewConflict(model.CodeCardLimit,
			fmt.Sprintf("at most %d fields per schema can be shown on the card", model.MaxShowOnCard))
	}
	return nil
}

// cardLimitExclude maps the optional excluded association onto the query
// parameter. The compared column is a uuid, so "no exclusion" has to reach
// the server as NULL, never as an empty string.
func cardLimitExclude(fieldID string) *string {
	if fieldID == "" {
		return nil
	}
	return &fieldID
}

// CreateSchema creates a schema and its initial field associations in one
// transaction; one bad initial field rolls back the whole creation.
func (r *SchemaRepo) CreateSchema(ctx context.Context, listID string, req model.CreateSchemaRequest) (*model.FieldSchema, []model.SchemaField, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	schema, err := scanSchema(tx.QueryRow(ctx, `
		INSERT INTO field_schemas (list_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING `+schemaColumns,
		listID, req.Name, req.Description))
	if err != nil {
		return nil, nil, err
	}

	var fields []model.SchemaField
	for _, f := range req.InitialFields {
		sf, err := addFieldTx(ctx, tx, schema, f)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, *sf)
	}

	if len(fields) > 0 {
		if err := notifySchemaVideos(ctx, tx, schema.ID); err != nil {
			return nil, nil, err
		}
	}

	return schema, fields, tx.Commit(ctx)
}

// GetSchema returns a single schema.
func (r *SchemaRepo) GetSchema(ctx context.Context, schemaID string) (*model.FieldSchema, error) {
	schema, err := scanSchema(r.pool.QueryRow(ctx, `
		SELECT `+schemaColumns+` FROM field_schemas WHERE id = $1`, schemaID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("schema", schemaID)
	}
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// ListByList returns all schemas of a list, oldest first.
func (r *SchemaRepo) ListByList(ctx context.Context, listID string) ([]model.FieldSchema, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+schemaColumns+` FROM field_schemas
		WHERE list_id = $1
		ORDER BY created_at, id`,
		listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemas []model.FieldSchema
	for rows.Next() {
		s, err := scanSchema(rows)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *s)
	}
	return schemas, rows.Err()
}

// UpdateSchema renames a schema or changes its description.
func (r *SchemaRepo) UpdateSchema(ctx context.Context, schemaID string, req model.UpdateSchemaRequest) (*model.FieldSchema, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := lockSchema(ctx, tx, schemaID)
	if err != nil {
		return nil, err
	}

	name, description := mergeSchemaUpdate(current, req)

	schema, err := scanSchema(tx.QueryRow(ctx, `
		UPDATE field_schemas
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+schemaColumns,
		name, description, schemaID))
	if err != nil {
		return nil, err
	}
	return schema, tx.Commit(ctx)
}

// mergeSchemaUpdate resolves the effective name and description of an
// update. A nil field keeps the current value; an explicit empty
// description clears it back to null.
func mergeSchemaUpdate(current *model.FieldSchema, req model.UpdateSchemaRequest) (string, *string) {
	name := current.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := current.Description
	if req.Description != nil {
		if *req.Description == "" {
			description = nil
		} else {
			description = req.Description
		}
	}
	return name, description
}

// DeleteSchema removes the schema and its association rows. The referenced
// fields and any recorded values stay untouched.
func (r *SchemaRepo) DeleteSchema(ctx context.Context, schemaID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := lockSchema(ctx, tx, schemaID); err != nil {
		return err
	}
	if err := notifySchemaVideos(ctx, tx, schemaID); err != nil {
		return err
	}
	if err := deleteSchemaAssociations(ctx, tx, schemaID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM field_schemas WHERE id = $1`, schemaID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AddField associates a field with a schema.
func (r *SchemaRepo) AddField(ctx context.Context, schemaID string, req model.AddSchemaFieldRequest) (*model.SchemaField, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	schema, err := lockSchema(ctx, tx, schemaID)
	if err != nil {
		return nil, err
	}

	sf, err := addFieldTx(ctx, tx, schema, req)
	if err != nil {
		return nil, err
	}
	if err := notifySchemaVideos(ctx, tx, schemaID); err != nil {
		return nil, err
	}

	return sf, tx.Commit(ctx)
}

// UpdateField mutates an association's display order or featured flag.
// Turning show_on_card on re-checks the cap against the other rows; turning
// it off is always allowed.
func (r *SchemaRepo) UpdateField(ctx context.Context, schemaID, fieldID string, req model.UpdateSchemaFieldRequest) (*model.SchemaField, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := lockSchema(ctx, tx, schemaID); err != nil {
		return nil, err
	}

	var sf model.SchemaField
	err = tx.QueryRow(ctx, `
		SELECT schema_id, field_id, display_order, show_on_card
		FROM schema_fields
		WHERE schema_id = $1 AND field_id = $2`,
		schemaID, fieldID).
		Scan(&sf.SchemaID, &sf.FieldID, &sf.DisplayOrder, &sf.ShowOnCard)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("schema field", fieldID)
	}
	if err != nil {
		return nil, err
	}

	if req.ShowOnCard != nil && *req.ShowOnCard && !sf.ShowOnCard {
		if err := checkCardLimit(ctx, tx, schemaID, fieldID); err != nil {
			return nil, err
		}
	}

	if req.DisplayOrder != nil {
		sf.DisplayOrder = *req.DisplayOrder
	}
	if req.ShowOnCard != nil {
		sf.ShowOnCard = *req.ShowOnCard
	}

	_, err = tx.Exec(ctx, `
		UPDATE schema_fields
		SET display_order = $1, show_on_card = $2
		WHERE schema_id = $3 AND field_id = $4`,
		sf.DisplayOrder, sf.ShowOnCard, schemaID, fieldID)
	if err != nil {
		return nil, err
	}

	sf.Field, err = scanField(tx.QueryRow(ctx, `
		SELECT `+fieldColumns+` FROM custom_fields WHERE id = $1`, fieldID))
	if err != nil {
		return nil, err
	}

	if err := notifySchemaVideos(ctx, tx, schemaID); err != nil {
		return nil, err
	}

	return &sf, tx.Commit(ctx)
}

// RemoveField deletes the association row only; the field itself and any
// recorded values survive and the field remains usable in other schemas.
func (r *SchemaRepo) RemoveField(ctx context.Context, schemaID, fieldID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := lockSchema(ctx, tx, schemaID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM schema_fields WHERE schema_id = $1 AND field_id = $2`,
		schemaID, fieldID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFound("schema field", fieldID)
	}

	if err := notifySchemaVideos(ctx, tx, schemaID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListFields returns the schema's associations with nested field
// definitions, ascending by display order. Orders are not required to be
// contiguous; removal never renumbers.
func (r *SchemaRepo) ListFields(ctx context.Context, schemaID string) ([]model.SchemaField, error) {
	if _, err := r.GetSchema(ctx, schemaID); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT sf.schema_id, sf.field_id, sf.display_order, sf.show_on_card,
		       `+prefixedFieldColumns("cf")+`
		FROM schema_fields sf
		JOIN custom_fields cf ON cf.id = sf.field_id
		WHERE sf.schema_id = $1
		ORDER BY sf.display_order, cf.created_at`,
		schemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []model.SchemaField
	for rows.Next() {
		var sf model.SchemaField
		var f model.CustomField
		err := rows.Scan(&sf.SchemaID, &sf.FieldID, &sf.DisplayOrder, &sf.ShowOnCard,
			&f.ID, &f.ListID, &f.Name, &f.FieldType, &f.Config,
			&f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		sf.Field = &f
		fields = append(fields, sf)
	}
	return fields, rows.Err()
}

func prefixedFieldColumns(alias string) string {
	return alias + ".id, " + alias + ".list_id, " + alias + ".name, " +
		alias + ".field_type, " + alias + ".config, " +
		alias + ".created_at, " + alias + ".updated_at"
}
