package mutator

import (
	"context"
	"fmt"

	"github.com/roach88/aquaflow/internal/model"
)

const (
	entityOrder = "Order"

	// BottleItem is the item name used for customer delivery requests.
	BottleItem = "19L Bottle"

	// MaxBottlesPerRequest caps a single delivery request.
	MaxBottlesPerRequest = 10
)

// CompleteDelivery moves order id from Pending or In Transit to Completed.
func (m *Mutator) CompleteDelivery(ctx context.Context, id int64) (model.Order, error) {
	var updated model.Order
	err := m.apply(ctx, "complete_delivery", func(doc *model.Document, _ model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.Orders, id)
		if i < 0 {
			return audit{}, notFound(entityOrder, id)
		}
		o := &doc.Orders[i]
		if !o.Status.Active() {
			return audit{}, badTransition(entityOrder, id, string(o.Status), string(model.OrderCompleted))
		}
		o.Status = model.OrderCompleted
		updated = *o
		return audit{
			action:   model.ActionUpdate,
			entity:   entityOrder,
			entityID: idString(id),
			details:  fmt.Sprintf("Delivery %d marked as completed", id),
		}, nil
	})
	return updated, err
}

// RequestDelivery creates a Pending bottle order for customerID priced at
// qty × pricePerBottle. Customers on vacation cannot request deliveries.
func (m *Mutator) RequestDelivery(ctx context.Context, customerID int64, qty int64) (model.Order, error) {
	err := m.checkFields(entityOrder, 0,
		fieldCheck{"customerId", customerID, "gt=0"},
		fieldCheck{"qty", qty, fmt.Sprintf("gte=1,lte=%d", MaxBottlesPerRequest)},
	)
	if err != nil {
		return model.Order{}, err
	}

	var created model.Order
	err = m.apply(ctx, "request_delivery", func(doc *model.Document, now model.Timestamp) (audit, error) {
		c, ok := model.FindByID(doc.Customers, customerID)
		if !ok {
			return audit{}, notFound(entityCustomer, customerID)
		}
		if c.Status == model.CustomerVacation {
			return audit{}, badTransition(entityCustomer, customerID, string(c.Status), "delivery request")
		}
		created = model.Order{
			ID:         model.NextID(doc.Orders),
			CustomerID: customerID,
			Item:       BottleItem,
			Qty:        qty,
			Amount:     qty * doc.Config.PricePerBottle,
			Status:     model.OrderPending,
			Date:       now.Date(),
		}
		doc.Orders = append(doc.Orders, created)
		return audit{
			action:   model.ActionCreate,
			entity:   entityOrder,
			entityID: idString(created.ID),
			details:  fmt.Sprintf("New order created for %s - %d bottles", c.Name, qty),
		}, nil
	})
	return created, err
}
