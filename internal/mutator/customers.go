package mutator

import (
	"context"
	"fmt"

	"github.com/roach88/aquaflow/internal/model"
)

const (
	entityCustomer = "Customer"

	// DefaultArea is assigned when a new customer has no area.
	DefaultArea = "General"
)

// NewCustomer is the input to AddCustomer.
type NewCustomer struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,phone"`
	Area  string `json:"area"`
	Email string `json:"email" validate:"omitempty,email"`
}

// CustomerPatch lists the fields EditCustomer may change. Nil fields are kept.
type CustomerPatch struct {
	Name    *string
	Phone   *string
	Area    *string
	Email   *string
	Status  *model.CustomerStatus
	Balance *int64
}

// AddCustomer creates an Active customer with zero balance and today's lastOrder.
func (m *Mutator) AddCustomer(ctx context.Context, in NewCustomer) (model.Customer, error) {
	in.Name, in.Phone, in.Area, in.Email = clean(in.Name), clean(in.Phone), clean(in.Area), clean(in.Email)
	if err := m.checkStruct(entityCustomer, in); err != nil {
		return model.Customer{}, err
	}
	if in.Area == "" {
		in.Area = DefaultArea
	}

	var created model.Customer
	err := m.apply(ctx, "add_customer", func(doc *model.Document, now model.Timestamp) (audit, error) {
		created = model.Customer{
			ID:        model.NextID(doc.Customers),
			Name:      in.Name,
			Phone:     in.Phone,
			Area:      in.Area,
			Email:     in.Email,
			Balance:   0,
			Status:    model.CustomerActive,
			LastOrder: now.Date(),
		}
		doc.Customers = append(doc.Customers, created)
		return audit{
			action:   model.ActionCreate,
			entity:   entityCustomer,
			entityID: idString(created.ID),
			details:  "Added customer " + created.Name,
		}, nil
	})
	return created, err
}

// EditCustomer applies patch to customer id. Name and phone stay required when present.
func (m *Mutator) EditCustomer(ctx context.Context, id int64, patch CustomerPatch) (model.Customer, error) {
	patch.Name, patch.Phone, patch.Area, patch.Email = cleanPtr(patch.Name), cleanPtr(patch.Phone), cleanPtr(patch.Area), cleanPtr(patch.Email)

	var checks []fieldCheck
	if patch.Name != nil {
		checks = append(checks, fieldCheck{"name", *patch.Name, "required"})
	}
	if patch.Phone != nil {
		checks = append(checks, fieldCheck{"phone", *patch.Phone, "required,phone"})
	}
	if patch.Email != nil {
		checks = append(checks, fieldCheck{"email", *patch.Email, "omitempty,email"})
	}
	if patch.Status != nil {
		checks = append(checks, fieldCheck{"status", string(*patch.Status), "oneof=Active Inactive Vacation"})
	}
	if err := m.checkFields(entityCustomer, id, checks...); err != nil {
		return model.Customer{}, err
	}

	var updated model.Customer
	err := m.apply(ctx, "edit_customer", func(doc *model.Document, _ model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.Customers, id)
		if i < 0 {
			return audit{}, notFound(entityCustomer, id)
		}
		c := &doc.Customers[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Phone != nil {
			c.Phone = *patch.Phone
		}
		if patch.Area != nil {
			c.Area = *patch.Area
		}
		if patch.Email != nil {
			c.Email = *patch.Email
		}
		if patch.Status != nil {
			c.Status = *patch.Status
		}
		if patch.Balance != nil {
			c.Balance = *patch.Balance
		}
		updated = *c
		return audit{
			action:   model.ActionUpdate,
			entity:   entityCustomer,
			entityID: idString(id),
			details:  "Updated customer " + c.Name,
		}, nil
	})
	return updated, err
}

// DeleteCustomer removes customer id. Orders and invoices referencing it are kept.
func (m *Mutator) DeleteCustomer(ctx context.Context, id int64, confirmed bool) (model.Customer, error) {
	if !confirmed {
		return model.Customer{}, notConfirmed(entityCustomer, id)
	}

	var removed model.Customer
	err := m.apply(ctx, "delete_customer", func(doc *model.Document, _ model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.Customers, id)
		if i < 0 {
			return audit{}, notFound(entityCustomer, id)
		}
		removed = doc.Customers[i]
		doc.Customers = append(doc.Customers[:i], doc.Customers[i+1:]...)
		return audit{
			action:   model.ActionDelete,
			entity:   entityCustomer,
			entityID: idString(id),
			details:  "Deleted customer " + removed.Name,
		}, nil
	})
	return removed, err
}

// SetVacation moves customer id between Active and Vacation.
func (m *Mutator) SetVacation(ctx context.Context, id int64, on bool) (model.Customer, error) {
	from, to := model.CustomerActive, model.CustomerVacation
	if !on {
		from, to = model.CustomerVacation, model.CustomerActive
	}

	var updated model.Customer
	err := m.apply(ctx, "set_vacation", func(doc *model.Document, _ model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.Customers, id)
		if i < 0 {
			return audit{}, notFound(entityCustomer, id)
		}
		c := &doc.Customers[i]
		if c.Status != from {
			return audit{}, badTransition(entityCustomer, id, string(c.Status), string(to))
		}
		c.Status = to
		updated = *c

		state := "enabled"
		if !on {
			state = "disabled"
		}
		return audit{
			action:   model.ActionUpdate,
			entity:   entityCustomer,
			entityID: idString(id),
			details:  fmt.Sprintf("Vacation mode %s for %s", state, c.Name),
		}, nil
	})
	return updated, err
}
