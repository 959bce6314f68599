package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/aquaflow/internal/model"
)

// EarningsPerDelivery is the driver payout per completed delivery, in PKR.
const EarningsPerDelivery = 150

var (
	weekFactor  = decimal.RequireFromString("5.5")
	monthFactor = decimal.RequireFromString("4.2")
)

// Progress labels.
const (
	ProgressExcellent = "Excellent"
	ProgressOnTrack   = "On Track"
	ProgressKeepGoing = "Keep Going"
)

// DriverRun is the driver's view of the current delivery run.
type DriverRun struct {
	Active           []model.Order   `json:"active"`
	Total            int             `json:"total"`
	Completed        int             `json:"completed"`
	BottlesDelivered int64           `json:"bottlesDelivered"`
	BottlesPending   int64           `json:"bottlesPending"`
	ProgressPercent  int64           `json:"progressPercent"`
	ProgressLabel    string          `json:"progressLabel"`
	EarningsToday    int64           `json:"earningsToday"`
	EarningsWeek     decimal.Decimal `json:"earningsWeek"`
	EarningsMonth    decimal.Decimal `json:"earningsMonth"`
}

// DriverStats summarises every order as one run. Active orders are those
// not Completed or Cancelled.
func DriverStats(orders []model.Order) DriverRun {
	r := DriverRun{Total: len(orders), Active: []model.Order{}}
	for _, o := range orders {
		switch {
		case o.Status == model.OrderCompleted:
			r.Completed++
			r.BottlesDelivered += o.Qty
		case o.Status.Active():
			r.BottlesPending += o.Qty
		}
		if o.Status != model.OrderCompleted && o.Status != model.OrderCancelled {
			r.Active = append(r.Active, o)
		}
	}

	r.ProgressPercent = percent(int64(r.Completed), int64(r.Total), 0).IntPart()
	r.ProgressLabel = progressLabel(r.ProgressPercent)

	r.EarningsToday = int64(r.Completed) * EarningsPerDelivery
	r.EarningsWeek = decimal.NewFromInt(r.EarningsToday).Mul(weekFactor)
	r.EarningsMonth = r.EarningsWeek.Mul(monthFactor)
	return r
}

func progressLabel(pct int64) string {
	switch {
	case pct >= 80:
		return ProgressExcellent
	case pct >= 50:
		return ProgressOnTrack
	default:
		return ProgressKeepGoing
	}
}
