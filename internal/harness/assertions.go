package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/aquaflow/internal/model"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, actual %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against doc and returns one
// message per failure.
func EvaluateAssertions(doc *model.Document, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertCount:
			err = assertCount(doc, a)
		case AssertRecord:
			err = assertRecord(doc, a)
		case AssertAuditContains:
			err = assertAuditContains(doc, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func assertCount(doc *model.Document, a Assertion) error {
	want, ok := a.Equals.(int)
	if !ok {
		return fmt.Errorf("count requires an integer equals, got %T", a.Equals)
	}
	got := doc.Len(model.Collection(a.Collection))
	if got != want {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d %s", want, a.Collection),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}

// assertRecord compares one JSON field of the record with id a.ID.
// Values are compared by their JSON encoding, so 13 matches 13 and "Paid" matches "Paid".
func assertRecord(doc *model.Document, a Assertion) error {
	rows, err := collectionRows(doc, model.Collection(a.Collection))
	if err != nil {
		return err
	}

	for _, row := range rows {
		if jsonEqual(row["id"], a.ID) {
			got, present := row[a.Field]
			if !present {
				return &AssertionError{
					Type:     AssertRecord,
					Expected: fmt.Sprintf("%s #%d to have field %q", a.Collection, a.ID, a.Field),
					Actual:   "field missing",
				}
			}
			if !jsonEqual(got, a.Equals) {
				return &AssertionError{
					Type:     AssertRecord,
					Expected: fmt.Sprintf("%s #%d %s = %s", a.Collection, a.ID, a.Field, encode(a.Equals)),
					Actual:   encode(got),
				}
			}
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertRecord,
		Expected: fmt.Sprintf("%s #%d", a.Collection, a.ID),
		Actual:   "not found",
	}
}

func assertAuditContains(doc *model.Document, a Assertion) error {
	for _, e := range doc.AuditLog {
		if a.Action != "" && string(e.Action) != a.Action {
			continue
		}
		if a.Entity != "" && e.Entity != a.Entity {
			continue
		}
		if a.EntityID != "" && e.EntityID != a.EntityID {
			continue
		}
		if a.Details != "" && !strings.Contains(e.Details, a.Details) {
			continue
		}
		return nil
	}
	return &AssertionError{
		Type:     AssertAuditContains,
		Expected: fmt.Sprintf("entry action=%q entity=%q entity_id=%q details~%q", a.Action, a.Entity, a.EntityID, a.Details),
		Actual:   fmt.Sprintf("none of %d entries matched", len(doc.AuditLog)),
	}
}

// collectionRows returns the records of name as generic JSON objects.
func collectionRows(doc *model.Document, name model.Collection) ([]map[string]any, error) {
	slot, err := doc.Slot(name)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(slot)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return rows, nil
}

func jsonEqual(a, b any) bool {
	return encode(a) == encode(b)
}

func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
