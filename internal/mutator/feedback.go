package mutator

import (
	"context"
	"fmt"

	"github.com/roach88/aquaflow/internal/model"
)

const entityFeedback = "Feedback"

// NewFeedback is the input to SubmitFeedback.
type NewFeedback struct {
	CustomerID int64  `json:"customerId" validate:"gt=0"`
	Rating     int64  `json:"rating" validate:"gte=1,lte=5"`
	Message    string `json:"message" validate:"required"`
}

// ReplyFeedback moves feedback id from New to Replied. Replying twice is rejected.
func (m *Mutator) ReplyFeedback(ctx context.Context, id int64, reply string) (model.Feedback, error) {
	reply = clean(reply)
	if err := m.checkFields(entityFeedback, id, fieldCheck{"reply", reply, "required"}); err != nil {
		return model.Feedback{}, err
	}

	var updated model.Feedback
	err := m.apply(ctx, "reply_feedback", func(doc *model.Document, now model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.Feedback, id)
		if i < 0 {
			return audit{}, notFound(entityFeedback, id)
		}
		f := &doc.Feedback[i]
		if f.Status != model.FeedbackNew {
			return audit{}, badTransition(entityFeedback, id, string(f.Status), string(model.FeedbackReplied))
		}
		stamp := now
		f.Status = model.FeedbackReplied
		f.Reply = reply
		f.RepliedBy = m.actor
		f.RepliedAt = &stamp
		updated = *f
		return audit{
			action:   model.ActionReply,
			entity:   entityFeedback,
			entityID: idString(id),
			details:  "Replied to customer feedback from " + f.CustomerName,
		}, nil
	})
	return updated, err
}

// SubmitFeedback records a New feedback message from a customer.
func (m *Mutator) SubmitFeedback(ctx context.Context, in NewFeedback) (model.Feedback, error) {
	in.Message = clean(in.Message)
	if err := m.checkStruct(entityFeedback, in); err != nil {
		return model.Feedback{}, err
	}

	var created model.Feedback
	err := m.apply(ctx, "submit_feedback", func(doc *model.Document, now model.Timestamp) (audit, error) {
		name, ok := doc.CustomerName(in.CustomerID)
		if !ok {
			return audit{}, notFound(entityCustomer, in.CustomerID)
		}
		created = model.Feedback{
			ID:           model.NextID(doc.Feedback),
			CustomerID:   in.CustomerID,
			CustomerName: name,
			Rating:       in.Rating,
			Message:      in.Message,
			Date:         now.Date(),
			Status:       model.FeedbackNew,
		}
		doc.Feedback = append(doc.Feedback, created)
		return audit{
			action:   model.ActionCreate,
			entity:   entityFeedback,
			entityID: idString(created.ID),
			details:  fmt.Sprintf("New %d-star feedback from %s", in.Rating, name),
		}, nil
	})
	return created, err
}
