package store

import (
	"context"
	"fmt"

	"github.com/roach88/aquaflow/internal/model"
)

// Get returns a copy of the named collection. T must match the collection's
// record type, e.g. Get[model.Customer](ctx, s, model.CollCustomers).
func Get[T any](ctx context.Context, s *Store, name model.Collection) ([]T, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	slot, err := doc.Slot(name)
	if err != nil {
		return nil, err
	}
	ptr, ok := slot.(*[]T)
	if !ok {
		return nil, fmt.Errorf("collection %s holds %T, not []%T", name, slot, *new(T))
	}
	if *ptr == nil {
		return []T{}, nil
	}
	return *ptr, nil
}

// Replace overwrites the named collection with seq and persists the whole document.
func Replace[T any](ctx context.Context, s *Store, name model.Collection, seq []T) error {
	_, err := s.Mutate(ctx, func(doc *model.Document) error {
		slot, err := doc.Slot(name)
		if err != nil {
			return err
		}
		ptr, ok := slot.(*[]T)
		if !ok {
			return fmt.Errorf("collection %s holds %T, not []%T", name, slot, *new(T))
		}
		*ptr = append([]T(nil), seq...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
