package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/seed"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWrite_DemoGolden(t *testing.T) {
	doc := seed.MustDemo()
	for _, e := range Entities {
		t.Run(string(e), func(t *testing.T) {
			var buf bytes.Buffer
			n, err := Write(&buf, doc, e, FormatCSV)
			require.NoError(t, err)
			assert.Positive(t, n)
			newGoldie(t).Assert(t, string(e), buf.Bytes())
		})
	}
}

func TestWriteCSV_EmbeddedCommaRoundTrips(t *testing.T) {
	rows := []model.Customer{
		{ID: 1, Name: "A, Inc."},
		{ID: 2, Name: "B"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, Customers()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "A, Inc.", records[1][1])
	assert.Equal(t, "B", records[2][1])
}

func TestWriteCSV_QuotesAndNewlinesRoundTrip(t *testing.T) {
	rows := []model.Feedback{
		{Message: `said "leaking"` + "\nagain", Rating: 2, Status: model.FeedbackNew},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, FeedbackRows()))
	assert.Contains(t, buf.String(), `"said ""leaking""`)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, rows[0].Message, records[1][2])
}

func TestWriteCSV_EmptyIsRejected(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []model.Customer{}, Customers())
	require.ErrorIs(t, err, ErrNothingToExport)
	assert.Zero(t, buf.Len())

	n, err := Write(&buf, seed.Empty(), EntityOrders, FormatCSV)
	require.ErrorIs(t, err, ErrNothingToExport)
	assert.Zero(t, n)
}

func TestOrders_UnknownCustomer(t *testing.T) {
	doc := seed.Empty()
	doc.Orders = []model.Order{{ID: 1, CustomerID: 404, Item: "19L Bottle", Qty: 1, Status: model.OrderPending}}

	var buf bytes.Buffer
	_, err := Write(&buf, doc, EntityOrders, FormatCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "1,Unknown,19L Bottle,1,"), lines[1])
}

func TestInventory_DefaultCategory(t *testing.T) {
	row := Inventory().Row(model.InventoryItem{ID: 9, Item: "Tap"})
	assert.Equal(t, DefaultCategory, row[2])
}

func TestWriteXLSX(t *testing.T) {
	doc := seed.MustDemo()
	var buf bytes.Buffer
	n, err := Write(&buf, doc, EntityInventory, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, len(doc.Inventory), n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventory"}, f.GetSheetList())
	rows, err := f.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, rows, len(doc.Inventory)+1)
	assert.Equal(t, Inventory().Headers(), rows[0])
	assert.Equal(t, "19L Bottle", rows[1][1])
	assert.Equal(t, "150", rows[1][3])
}

func TestWriteXLSX_EmptyIsRejected(t *testing.T) {
	err := WriteXLSX(&bytes.Buffer{}, "Customers", []model.Customer(nil), Customers())
	require.True(t, errors.Is(err, ErrNothingToExport))
}

func TestParseEntityAndFileName(t *testing.T) {
	e, err := ParseEntity(" Customers ")
	require.NoError(t, err)
	assert.Equal(t, EntityCustomers, e)
	assert.Equal(t, "Customers", e.Title())
	assert.Equal(t, "Audit Log", EntityAudit.Title())

	_, err = ParseEntity("drivers")
	require.Error(t, err)

	assert.Equal(t, "customers-2026-02-26.csv", FileName(EntityCustomers, model.MustDate("2026-02-26"), FormatCSV))
	assert.Equal(t, "audit-2026-02-26.xlsx", FileName(EntityAudit, model.MustDate("2026-02-26"), FormatXLSX))
}
