package harness

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/mutator"
)

// action runs one mutator call. The returned value is the affected record.
type action func(ctx context.Context, m *mutator.Mutator, args *yaml.Node) (model.Record, error)

// idArgs is shared by actions that only need a record id.
type idArgs struct {
	ID int64 `yaml:"id"`
}

type confirmArgs struct {
	ID      int64 `yaml:"id"`
	Confirm bool  `yaml:"confirm"`
}

type customerArgs struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Area  string `yaml:"area"`
	Email string `yaml:"email"`
}

type customerPatchArgs struct {
	ID      int64   `yaml:"id"`
	Name    *string `yaml:"name"`
	Phone   *string `yaml:"phone"`
	Area    *string `yaml:"area"`
	Email   *string `yaml:"email"`
	Status  *string `yaml:"status"`
	Balance *int64  `yaml:"balance"`
}

type vacationArgs struct {
	ID int64 `yaml:"id"`
	On bool  `yaml:"on"`
}

type itemArgs struct {
	Item     string `yaml:"item"`
	Category string `yaml:"category"`
	Stock    int64  `yaml:"stock"`
	Price    int64  `yaml:"price"`
	MinStock *int64 `yaml:"min_stock"`
	Supplier string `yaml:"supplier"`
}

type itemPatchArgs struct {
	ID       int64   `yaml:"id"`
	Item     *string `yaml:"item"`
	Category *string `yaml:"category"`
	Price    *int64  `yaml:"price"`
	MinStock *int64  `yaml:"min_stock"`
	Supplier *string `yaml:"supplier"`
}

type restockArgs struct {
	ID  int64 `yaml:"id"`
	Qty int64 `yaml:"qty"`
}

type payArgs struct {
	ID     int64  `yaml:"id"`
	Method string `yaml:"method"`
}

type replyArgs struct {
	ID    int64  `yaml:"id"`
	Reply string `yaml:"reply"`
}

type feedbackArgs struct {
	CustomerID int64  `yaml:"customer_id"`
	Rating     int64  `yaml:"rating"`
	Message    string `yaml:"message"`
}

type requestArgs struct {
	CustomerID int64 `yaml:"customer_id"`
	Qty        int64 `yaml:"qty"`
}

// decode fills v from args. A missing args block leaves v zero.
func decode[T any](args *yaml.Node) (T, error) {
	var v T
	if args == nil || args.Kind == 0 {
		return v, nil
	}
	if err := args.Decode(&v); err != nil {
		return v, fmt.Errorf("decode args: %w", err)
	}
	return v, nil
}

// bind adapts a typed handler to an action.
func bind[A any, R model.Record](fn func(context.Context, *mutator.Mutator, A) (R, error)) action {
	return func(ctx context.Context, m *mutator.Mutator, args *yaml.Node) (model.Record, error) {
		a, err := decode[A](args)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, m, a)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// actions maps scenario action names to mutator calls.
var actions = map[string]action{
	"customer.add": bind(func(ctx context.Context, m *mutator.Mutator, a customerArgs) (model.Customer, error) {
		return m.AddCustomer(ctx, mutator.NewCustomer{Name: a.Name, Phone: a.Phone, Area: a.Area, Email: a.Email})
	}),
	"customer.edit": bind(func(ctx context.Context, m *mutator.Mutator, a customerPatchArgs) (model.Customer, error) {
		patch := mutator.CustomerPatch{Name: a.Name, Phone: a.Phone, Area: a.Area, Email: a.Email, Balance: a.Balance}
		if a.Status != nil {
			st := model.CustomerStatus(*a.Status)
			patch.Status = &st
		}
		return m.EditCustomer(ctx, a.ID, patch)
	}),
	"customer.delete": bind(func(ctx context.Context, m *mutator.Mutator, a confirmArgs) (model.Customer, error) {
		return m.DeleteCustomer(ctx, a.ID, a.Confirm)
	}),
	"customer.vacation": bind(func(ctx context.Context, m *mutator.Mutator, a vacationArgs) (model.Customer, error) {
		return m.SetVacation(ctx, a.ID, a.On)
	}),

	"inventory.add": bind(func(ctx context.Context, m *mutator.Mutator, a itemArgs) (model.InventoryItem, error) {
		return m.AddItem(ctx, mutator.NewItem{
			Name: a.Item, Category: a.Category, Stock: a.Stock, Price: a.Price, MinStock: a.MinStock, Supplier: a.Supplier,
		})
	}),
	"inventory.edit": bind(func(ctx context.Context, m *mutator.Mutator, a itemPatchArgs) (model.InventoryItem, error) {
		return m.EditItem(ctx, a.ID, mutator.ItemPatch{
			Name: a.Item, Category: a.Category, Price: a.Price, MinStock: a.MinStock, Supplier: a.Supplier,
		})
	}),
	"inventory.delete": bind(func(ctx context.Context, m *mutator.Mutator, a confirmArgs) (model.InventoryItem, error) {
		return m.DeleteItem(ctx, a.ID, a.Confirm)
	}),
	"inventory.restock": bind(func(ctx context.Context, m *mutator.Mutator, a restockArgs) (model.InventoryItem, error) {
		return m.Restock(ctx, a.ID, a.Qty)
	}),

	"order.complete": bind(func(ctx context.Context, m *mutator.Mutator, a idArgs) (model.Order, error) {
		return m.CompleteDelivery(ctx, a.ID)
	}),
	"order.request": bind(func(ctx context.Context, m *mutator.Mutator, a requestArgs) (model.Order, error) {
		return m.RequestDelivery(ctx, a.CustomerID, a.Qty)
	}),

	"invoice.pay": bind(func(ctx context.Context, m *mutator.Mutator, a payArgs) (model.Invoice, error) {
		return m.MarkInvoicePaid(ctx, a.ID, a.Method)
	}),
	"cash.verify": bind(func(ctx context.Context, m *mutator.Mutator, a idArgs) (model.CashSubmission, error) {
		return m.VerifyCash(ctx, a.ID)
	}),

	"feedback.reply": bind(func(ctx context.Context, m *mutator.Mutator, a replyArgs) (model.Feedback, error) {
		return m.ReplyFeedback(ctx, a.ID, a.Reply)
	}),
	"feedback.submit": bind(func(ctx context.Context, m *mutator.Mutator, a feedbackArgs) (model.Feedback, error) {
		return m.SubmitFeedback(ctx, mutator.NewFeedback{CustomerID: a.CustomerID, Rating: a.Rating, Message: a.Message})
	}),

	"audit.clear": func(ctx context.Context, m *mutator.Mutator, args *yaml.Node) (model.Record, error) {
		a, err := decode[confirmArgs](args)
		if err != nil {
			return nil, err
		}
		return nil, m.ClearAuditLog(ctx, a.Confirm)
	},
	"bottles.audit": func(ctx context.Context, m *mutator.Mutator, args *yaml.Node) (model.Record, error) {
		a, err := decode[confirmArgs](args)
		if err != nil {
			return nil, err
		}
		_, err = m.StartBottleAudit(ctx, a.Confirm)
		return nil, err
	},
}

// Actions returns the registered action names in sorted order.
func Actions() []string {
	return slices.Sorted(maps.Keys(actions))
}
