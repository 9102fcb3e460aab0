package service

import (
	"fmt"
	"testing"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
)

// composerState is a pure-logic mirror of the transactional composition
// rules in the schema repository, for unit testing without a database.
type composerState struct {
	rows []assocRow
}

type assocRow struct {
	fieldID      string
	displayOrder int
	showOnCard   bool
}

func (s *composerState) addField(fieldID string, displayOrder *int, showOnCard bool) (assocRow, error) {
	for _, r := range s.rows {
		if r.fieldID == fieldID {
			return assocRow{}, model.NewConflict(model.CodeDuplicateField,
				"field is already part of this schema")
		}
	}
	if showOnCard && s.featuredCount("") >= model.MaxShowOnCard {
		return assocRow{}, model.NewConflict(model.CodeCardLimit,
			fmt.Sprintf("at most %d fields per schema can be shown on the card", model.MaxShowOnCard))
	}

	order := 0
	if displayOrder != nil {
		order = *displayOrder
	} else if len(s.rows) > 0 {
		max := s.rows[0].displayOrder
		for _, r := range s.rows[1:] {
			if r.displayOrder > max {
				max = r.displayOrder
			}
		}
		order = max + 1
	}

	row := assocRow{fieldID: fieldID, displayOrder: order, showOnCard: showOnCard}
	s.rows = append(s.rows, row)
	return row, nil
}

func (s *composerState) updateField(fieldID string, displayOrder *int, showOnCard *bool) error {
	for i, r := range s.rows {
		if r.fieldID != fieldID {
			continue
		}
		if showOnCard != nil && *showOnCard && !r.showOnCard &&
			s.featuredCount(fieldID) >= model.MaxShowOnCard {
			return model.NewConflict(model.CodeCardLimit, "card limit reached")
		}
		if displayOrder != nil {
			s.rows[i].displayOrder = *displayOrder
		}
		if showOnCard != nil {
			s.rows[i].showOnCard = *showOnCard
		}
		return nil
	}
	return model.NewNotFound("schema field", fieldID)
}

func (s *composerState) removeField(fieldID string) error {
	for i, r := range s.rows {
		if r.fieldID == fieldID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return model.NewNotFound("schema field", fieldID)
}

func (s *composerState) featuredCount(excludeFieldID string) int {
	n := 0
	for _, r := range s.rows {
		if r.showOnCard && r.fieldID != excludeFieldID {
			n++
		}
	}
	return n
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestAddField_DisplayOrderAssignment(t *testing.T) {
	s := &composerState{}

	row, err := s.addField("f1", nil, false)
	if err != nil {
		t.Fatalf("add f1: %v", err)
	}
	if row.displayOrder != 0 {
		t.Errorf("first field order = %d, want 0", row.displayOrder)
	}

	row, err = s.addField("f2", nil, false)
	if err != nil {
		t.Fatalf("add f2: %v", err)
	}
	if row.displayOrder != 1 {
		t.Errorf("second field order = %d, want 1", row.displayOrder)
	}

	// Explicit order creates a gap; the next append continues after the max.
	if _, err := s.addField("f3", intPtr(10), false); err != nil {
		t.Fatalf("add f3: %v", err)
	}
	row, err = s.addField("f4", nil, false)
	if err != nil {
		t.Fatalf("add f4: %v", err)
	}
	if row.displayOrder != 11 {
		t.Errorf("order after gap = %d, want 11", row.displayOrder)
	}
}

func TestAddField_DuplicatePair(t *testing.T) {
	s := &composerState{}
	if _, err := s.addField("f1", nil, false); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := s.addField("f1", nil, false)
	conflict, ok := err.(*model.ConflictError)
	if !ok {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if conflict.Code != model.CodeDuplicateField {
		t.Errorf("code = %s, want %s", conflict.Code, model.CodeDuplicateField)
	}
}

func TestAddField_CardLimit(t *testing.T) {
	s := &composerState{}
	for i := 1; i <= 3; i++ {
		if _, err := s.addField(fmt.Sprintf("f%d", i), nil, true); err != nil {
			t.Fatalf("add featured %d: %v", i, err)
		}
	}

	_, err := s.addField("f4", nil, true)
	conflict, ok := err.(*model.ConflictError)
	if !ok {
		t.Fatalf("4th featured err = %v, want ConflictError", err)
	}
	if conflict.Code != model.CodeCardLimit {
		t.Errorf("code = %s, want %s", conflict.Code, model.CodeCardLimit)
	}

	// The same field without the flag is fine.
	if _, err := s.addField("f4", nil, false); err != nil {
		t.Errorf("4th unfeatured: %v", err)
	}
}

func TestUpdateField_ToggleShowOnCard(t *testing.T) {
	s := &composerState{}
	for i := 1; i <= 3; i++ {
		if _, err := s.addField(fmt.Sprintf("f%d", i), nil, true); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if _, err := s.addField("f4", nil, false); err != nil {
		t.Fatalf("add f4: %v", err)
	}

	// false -> true with 3 others featured fails.
	if err := s.updateField("f4", nil, boolPtr(true)); err == nil {
		t.Error("toggling a 4th row to featured should fail")
	}

	// true -> false always succeeds.
	if err := s.updateField("f1", nil, boolPtr(false)); err != nil {
		t.Errorf("unfeature f1: %v", err)
	}

	// Now there is room.
	if err := s.updateField("f4", nil, boolPtr(true)); err != nil {
		t.Errorf("feature f4 after freeing a slot: %v", err)
	}

	// Re-featuring an already-featured row must not count itself.
	if err := s.updateField("f4", nil, boolPtr(true)); err != nil {
		t.Errorf("re-feature f4: %v", err)
	}
}

func TestUpdateField_OrderChangeSkipsCapCheck(t *testing.T) {
	s := &composerState{}
	for i := 1; i <= 3; i++ {
		if _, err := s.addField(fmt.Sprintf("f%d", i), nil, true); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	// Moving a featured row is no toggle; the cap never applies.
	if err := s.updateField("f2", intPtr(99), nil); err != nil {
		t.Errorf("reorder featured row: %v", err)
	}
}

func TestRemoveField_NoRenumbering(t *testing.T) {
	s := &composerState{}
	for i := 1; i <= 3; i++ {
		if _, err := s.addField(fmt.Sprintf("f%d", i), nil, false); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if err := s.removeField("f2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.removeField("f2"); err == nil {
		t.Error("second remove should report not found")
	}

	// Orders stay 0 and 2; the next append continues from the max.
	row, err := s.addField("f4", nil, false)
	if err != nil {
		t.Fatalf("add f4: %v", err)
	}
	if row.displayOrder != 3 {
		t.Errorf("order after removal = %d, want 3", row.displayOrder)
	}
}

// The full walk-through: a rating, a text, and a select field featured on a
// fresh schema; the 4th featured add conflicts; unfeatured it appends at
// order 3.
func TestComposer_EndToEnd(t *testing.T) {
	s := &composerState{}

	steps := []struct {
		fieldID   string
		featured  bool
		wantOrder int
	}{
		{"rating", true, 0},
		{"notes", true, 1},
		{"quality", true, 2},
	}
	for _, st := range steps {
		row, err := s.addField(st.fieldID, nil, st.featured)
		if err != nil {
			t.Fatalf("add %s: %v", st.fieldID, err)
		}
		if row.displayOrder != st.wantOrder {
			t.Errorf("%s order = %d, want %d", st.fieldID, row.displayOrder, st.wantOrder)
		}
	}

	if _, err := s.addField("watched", nil, true); err == nil {
		t.Fatal("4th featured add should conflict")
	}

	row, err := s.addField("watched", nil, false)
	if err != nil {
		t.Fatalf("add watched unfeatured: %v", err)
	}
	if row.displayOrder != 3 {
		t.Errorf("watched order = %d, want 3", row.displayOrder)
	}

	want := []string{"rating", "notes", "quality", "watched"}
	for i, r := range s.rows {
		if r.fieldID != want[i] {
			t.Errorf("row %d = %s, want %s", i, r.fieldID, want[i])
		}
	}
}
