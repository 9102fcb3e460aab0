package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
)

// fieldStore is a pure-logic mirror of the delete and uniqueness rules the
// field and schema repositories run in SQL, for unit testing without a
// database. Field deletion cascades to values but is blocked while any
// schema references the field; schema deletion and association removal
// touch association rows only.
type fieldStore struct {
	fields map[string]storedField     // field id -> definition
	assocs map[string]map[string]bool // schema id -> field id set
	values map[string]map[string]bool // field id -> video id set
}

type storedField struct {
	listID string
	name   string
}

func newFieldStore() *fieldStore {
	return &fieldStore{
		fields: map[string]storedField{},
		assocs: map[string]map[string]bool{},
		values: map[string]map[string]bool{},
	}
}

func (s *fieldStore) createField(id, listID, name string) error {
	for _, f := range s.fields {
		if f.listID == listID && strings.EqualFold(f.name, name) {
			return model.NewConflict(model.CodeDuplicateName,
				"a field with this name already exists in this list")
		}
	}
	s.fields[id] = storedField{listID: listID, name: name}
	return nil
}

func (s *fieldStore) deleteField(id string) error {
	if _, ok := s.fields[id]; !ok {
		return model.NewNotFound("field", id)
	}
	for _, fieldIDs := range s.assocs {
		if fieldIDs[id] {
			return model.NewConflict(model.CodeFieldInUse,
				"field is referenced by a schema")
		}
	}
	delete(s.fields, id)
	delete(s.values, id)
	return nil
}

func (s *fieldStore) deleteSchema(schemaID string) {
	delete(s.assocs, schemaID)
}

func (s *fieldStore) removeAssociation(schemaID, fieldID string) error {
	if !s.assocs[schemaID][fieldID] {
		return model.NewNotFound("schema field", fieldID)
	}
	delete(s.assocs[schemaID], fieldID)
	return nil
}

func (s *fieldStore) associate(schemaID, fieldID string) {
	if s.assocs[schemaID] == nil {
		s.assocs[schemaID] = map[string]bool{}
	}
	s.assocs[schemaID][fieldID] = true
}

func (s *fieldStore) record(fieldID, videoID string) {
	if s.values[fieldID] == nil {
		s.values[fieldID] = map[string]bool{}
	}
	s.values[fieldID][videoID] = true
}

func wantConflict(t *testing.T, err error, code string) {
	t.Helper()
	var conflict *model.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want conflict %s", err, code)
	}
	if conflict.Code != code {
		t.Fatalf("conflict code = %s, want %s", conflict.Code, code)
	}
}

func TestDeleteField_BlockedWhileReferenced(t *testing.T) {
	s := newFieldStore()
	s.createField("f1", "l1", "rating")
	s.associate("s1", "f1")
	s.record("f1", "v1")

	wantConflict(t, s.deleteField("f1"), model.CodeFieldInUse)

	if _, ok := s.fields["f1"]; !ok {
		t.Error("blocked delete must leave the field in place")
	}
	if !s.values["f1"]["v1"] {
		t.Error("blocked delete must leave recorded values in place")
	}
}

func TestDeleteField_UnreferencedCascadesToValues(t *testing.T) {
	s := newFieldStore()
	s.createField("f1", "l1", "rating")
	s.record("f1", "v1")
	s.record("f1", "v2")

	if err := s.deleteField("f1"); err != nil {
		t.Fatalf("delete unreferenced field: %v", err)
	}
	if _, ok := s.fields["f1"]; ok {
		t.Error("field should be gone")
	}
	if len(s.values["f1"]) != 0 {
		t.Errorf("values should cascade, %d left", len(s.values["f1"]))
	}
}

func TestDeleteSchema_KeepsFieldsAndValues(t *testing.T) {
	s := newFieldStore()
	s.createField("f1", "l1", "rating")
	s.associate("s1", "f1")
	s.record("f1", "v1")

	s.deleteSchema("s1")

	if _, ok := s.fields["f1"]; !ok {
		t.Error("schema delete must not remove the field")
	}
	if !s.values["f1"]["v1"] {
		t.Error("schema delete must not remove recorded values")
	}
	if err := s.deleteField("f1"); err != nil {
		t.Errorf("field should be deletable once unreferenced: %v", err)
	}
}

func TestRemoveAssociation_KeepsFieldAndValues(t *testing.T) {
	s := newFieldStore()
	s.createField("f1", "l1", "rating")
	s.associate("s1", "f1")
	s.associate("s2", "f1")
	s.record("f1", "v1")

	if err := s.removeAssociation("s1", "f1"); err != nil {
		t.Fatalf("remove association: %v", err)
	}
	if _, ok := s.fields["f1"]; !ok {
		t.Error("removing an association must not delete the field")
	}
	if !s.values["f1"]["v1"] {
		t.Error("removing an association must not delete values")
	}
	if !s.assocs["s2"]["f1"] {
		t.Error("the field must stay usable in other schemas")
	}

	if err := s.removeAssociation("s1", "f1"); err == nil {
		t.Error("removing a missing association should report not found")
	}
}

func TestCreateField_CaseInsensitiveDuplicate(t *testing.T) {
	s := newFieldStore()
	if err := s.createField("f1", "l1", "Rating"); err != nil {
		t.Fatalf("create: %v", err)
	}

	wantConflict(t, s.createField("f2", "l1", "rating"), model.CodeDuplicateName)
	wantConflict(t, s.createField("f3", "l1", "RATING"), model.CodeDuplicateName)

	// Same name in another list is a different namespace.
	if err := s.createField("f4", "l2", "rating"); err != nil {
		t.Errorf("same name in another list: %v", err)
	}
}
