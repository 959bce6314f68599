package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/aquaflow/internal/model"
)

// Bar is one row of the sales chart.
type Bar struct {
	Item    string          `json:"item"`
	Count   int             `json:"count"`
	Percent decimal.Decimal `json:"percent"`
}

// SalesHistogram counts orders per item name in first-seen order. The
// largest count is the 100% baseline.
func SalesHistogram(orders []model.Order) []Bar {
	index := make(map[string]int)
	var bars []Bar
	maxCount := 0
	for _, o := range orders {
		i, ok := index[o.Item]
		if !ok {
			i = len(bars)
			index[o.Item] = i
			bars = append(bars, Bar{Item: o.Item})
		}
		bars[i].Count++
		maxCount = max(maxCount, bars[i].Count)
	}
	for i := range bars {
		bars[i].Percent = percent(int64(bars[i].Count), int64(maxCount), 1)
	}
	return bars
}
