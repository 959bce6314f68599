package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name string
		in   []Customer
		want int64
	}{
		{"empty", nil, 1},
		{"single", []Customer{{ID: 1}}, 2},
		{"gap", []Customer{{ID: 1}, {ID: 7}, {ID: 3}}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.in))
		})
	}
}

func TestFindByID(t *testing.T) {
	items := []InventoryItem{{ID: 1, Item: "19L Bottle"}, {ID: 2, Item: "Dispenser"}}

	got, ok := FindByID(items, 2)
	require.True(t, ok)
	assert.Equal(t, "Dispenser", got.Item)

	_, ok = FindByID(items, 999)
	assert.False(t, ok)
	assert.Equal(t, -1, FindIndex(items, 999))
}

func TestStatusDecodeRejectsUnknown(t *testing.T) {
	var c Customer
	err := json.Unmarshal([]byte(`{"id":1,"status":"Dormant"}`), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer status")

	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"status":"In Transit"}`), &o))
	assert.Equal(t, OrderInTransit, o.Status)
	assert.True(t, o.Status.Active())
}

func TestStatusDecode_EmptyUpgradeableStatuses(t *testing.T) {
	var f Feedback
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"status":""}`), &f))
	assert.Equal(t, FeedbackStatus(""), f.Status)
	require.Error(t, json.Unmarshal([]byte(`{"id":1,"status":"Closed"}`), &f))

	var c CashSubmission
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"status":""}`), &c))
	assert.Equal(t, CashStatus(""), c.Status)

	var o Order
	require.Error(t, json.Unmarshal([]byte(`{"id":1,"status":""}`), &o))
}

func TestParseOrderStatus_LegacyDelivered(t *testing.T) {
	s, err := ParseOrderStatus("Delivered")
	require.NoError(t, err)
	assert.Equal(t, OrderCompleted, s)
}

func TestCashStatusForDiff(t *testing.T) {
	assert.Equal(t, CashShort, CashStatusForDiff(-50))
	assert.Equal(t, CashMatched, CashStatusForDiff(0))
	assert.Equal(t, CashExcess, CashStatusForDiff(100))
}

func TestDateJSON(t *testing.T) {
	var inv Invoice
	data := `{"id":1002,"status":"Unpaid","date":"2026-02-21","paidDate":null}`
	require.NoError(t, json.Unmarshal([]byte(data), &inv))
	assert.Equal(t, "2026-02-21", inv.Date.String())
	assert.Nil(t, inv.PaidDate)

	paid := MustDate("2026-02-26")
	inv.PaidDate = &paid
	out, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"paidDate":"2026-02-26"`)
	assert.Contains(t, string(out), `"dueDate":""`)
}

func TestDate_InvalidRejected(t *testing.T) {
	var d Date
	require.Error(t, json.Unmarshal([]byte(`"26/02/2026"`), &d))
}

func TestDateDaysUntil(t *testing.T) {
	from := MustDate("2026-01-16")
	to := NewDate(time.Date(2026, 2, 26, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, 41, from.DaysUntil(to))
	assert.True(t, from.Before(to))
}

func TestTimestampAcceptsShortLayout(t *testing.T) {
	ts, err := ParseTimestamp("2026-02-24 18:30")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-24 18:30:00", ts.String())
	assert.Equal(t, "2026-02-24", ts.Date().String())
}

func TestDocumentNormalize(t *testing.T) {
	var doc Document
	doc.Normalize()
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"customers":[]`)
	assert.NotContains(t, string(out), "null")
}

func TestDocumentClone_IsIndependent(t *testing.T) {
	doc := &Document{Customers: []Customer{{ID: 1, Name: "Cafe One", Status: CustomerActive}}}
	cp, err := doc.Clone()
	require.NoError(t, err)

	cp.Customers[0].Name = "Changed"
	assert.Equal(t, "Cafe One", doc.Customers[0].Name)
}

func TestDocumentSlot(t *testing.T) {
	doc := &Document{}
	slot, err := doc.Slot(CollInventory)
	require.NoError(t, err)
	items, ok := slot.(*[]InventoryItem)
	require.True(t, ok)
	*items = append(*items, InventoryItem{ID: 1})
	assert.Equal(t, 1, doc.Len(CollInventory))

	_, err = doc.Slot("bogus")
	require.Error(t, err)
}
