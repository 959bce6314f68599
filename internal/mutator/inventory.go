package mutator

import (
	"context"
	"fmt"

	"github.com/roach88/aquaflow/internal/model"
)

const (
	entityInventory = "Inventory"

	// DefaultMinStock is used when a new item has no minimum stock.
	DefaultMinStock int64 = 10
)

// NewItem is the input to AddItem. A nil MinStock becomes DefaultMinStock.
type NewItem struct {
	Name     string `json:"item" validate:"required"`
	Category string `json:"category" validate:"required"`
	Stock    int64  `json:"stock" validate:"gte=0"`
	Price    int64  `json:"price" validate:"gte=0"`
	MinStock *int64 `json:"minStock" validate:"omitempty,gte=0"`
	Supplier string `json:"supplier"`
}

// ItemPatch lists the fields EditItem may change. Nil fields are kept.
type ItemPatch struct {
	Name     *string
	Category *string
	Price    *int64
	MinStock *int64
	Supplier *string
}

// AddItem creates an inventory item restocked today.
func (m *Mutator) AddItem(ctx context.Context, in NewItem) (model.InventoryItem, error) {
	in.Name, in.Category, in.Supplier = clean(in.Name), clean(in.Category), clean(in.Supplier)
	if err := m.checkStruct(entityInventory, in); err != nil {
		return model.InventoryItem{}, err
	}
	minStock := DefaultMinStock
	if in.MinStock != nil {
		minStock = *in.MinStock
	}

	var created model.InventoryItem
	err := m.apply(ctx, "add_item", func(doc *model.Document, now model.Timestamp) (audit, error) {
		created = model.InventoryItem{
			ID:            model.NextID(doc.Inventory),
			Item:          in.Name,
			Category:      in.Category,
			Stock:         in.Stock,
			Price:         in.Price,
			MinStock:      minStock,
			LastRestocked: now.Date(),
			Supplier:      in.Supplier,
		}
		doc.Inventory = append(doc.Inventory, created)
		return audit{
			action:   model.ActionCreate,
			entity:   entityInventory,
			entityID: idString(created.ID),
			details:  "Added item " + created.Item,
		}, nil
	})
	return created, err
}

// EditItem applies patch to item id.
func (m *Mutator) EditItem(ctx context.Context, id int64, patch ItemPatch) (model.InventoryItem, error) {
	patch.Name, patch.Category, patch.Supplier = cleanPtr(patch.Name), cleanPtr(patch.Category), cleanPtr(patch.Supplier)

	var checks []fieldCheck
	if patch.Name != nil {
		checks = append(checks, fieldCheck{"item", *patch.Name, "required"})
	}
	if patch.Category != nil {
		checks = append(checks, fieldCheck{"category", *patch.Category, "required"})
	}
	if patch.Price != nil {
		checks = append(checks, fieldCheck{"price", *patch.Price, "gte=0"})
	}
	if patch.MinStock != nil {
		checks = append(checks, fieldCheck{"minStock", *patch.MinStock, "gte=0"})
	}
	if err := m.checkFields(entityInventory, id, checks...); err != nil {
		return model.InventoryItem{}, err
	}

	var updated model.InventoryItem
	err := m.apply(ctx, "edit_item", func(doc *model.Document, _ model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.Inventory, id)
		if i < 0 {
			return audit{}, notFound(entityInventory, id)
		}
		it := &doc.Inventory[i]
		if patch.Name != nil {
			it.Item = *patch.Name
		}
		if patch.Category != nil {
			it.Category = *patch.Category
		}
		if patch.Price != nil {
			it.Price = *patch.Price
		}
		if patch.MinStock != nil {
			it.MinStock = *patch.MinStock
		}
		if patch.Supplier != nil {
			it.Supplier = *patch.Supplier
		}
		updated = *it
		return audit{
			action:   model.ActionUpdate,
			entity:   entityInventory,
			entityID: idString(id),
			details:  "Updated item " + it.Item,
		}, nil
	})
	return updated, err
}

// DeleteItem removes item id.
func (m *Mutator) DeleteItem(ctx context.Context, id int64, confirmed bool) (model.InventoryItem, error) {
	if !confirmed {
		return model.InventoryItem{}, notConfirmed(entityInventory, id)
	}

	var removed model.InventoryItem
	err := m.apply(ctx, "delete_item", func(doc *model.Document, _ model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.Inventory, id)
		if i < 0 {
			return audit{}, notFound(entityInventory, id)
		}
		removed = doc.Inventory[i]
		doc.Inventory = append(doc.Inventory[:i], doc.Inventory[i+1:]...)
		return audit{
			action:   model.ActionDelete,
			entity:   entityInventory,
			entityID: idString(id),
			details:  "Deleted item " + removed.Item,
		}, nil
	})
	return removed, err
}

// Restock adds qty to item id and stamps lastRestocked with today.
func (m *Mutator) Restock(ctx context.Context, id int64, qty int64) (model.InventoryItem, error) {
	if err := m.checkFields(entityInventory, id, fieldCheck{"qty", qty, "gt=0"}); err != nil {
		return model.InventoryItem{}, err
	}

	var updated model.InventoryItem
	err := m.apply(ctx, "restock", func(doc *model.Document, now model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.Inventory, id)
		if i < 0 {
			return audit{}, notFound(entityInventory, id)
		}
		it := &doc.Inventory[i]
		it.Stock += qty
		it.LastRestocked = now.Date()
		updated = *it
		return audit{
			action:   model.ActionUpdate,
			entity:   entityInventory,
			entityID: idString(id),
			details:  fmt.Sprintf("Updated stock level for %s: +%d", it.Item, qty),
		}, nil
	})
	return updated, err
}
