package aggregate

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/aquaflow/internal/model"
)

// StarCount is the number and share of feedback with one star rating.
type StarCount struct {
	Stars   int64           `json:"stars"`
	Count   int             `json:"count"`
	Percent decimal.Decimal `json:"percent"`
}

// FeedbackReport is the feedback inbox header.
type FeedbackReport struct {
	Total        int             `json:"total"`
	AvgRating    decimal.Decimal `json:"avgRating"`
	Unreplied    int             `json:"unreplied"`
	Distribution []StarCount     `json:"distribution"`
}

// FeedbackStats averages ratings and counts each star from 5 down to 1.
// Ratings outside 1..5 count toward the average only.
func FeedbackStats(fb []model.Feedback) FeedbackReport {
	r := FeedbackReport{Total: len(fb), AvgRating: decimal.Zero}
	var counts [6]int
	var sum int64
	for _, f := range fb {
		sum += f.Rating
		if f.Rating >= 1 && f.Rating <= 5 {
			counts[f.Rating]++
		}
		if f.Status == model.FeedbackNew {
			r.Unreplied++
		}
	}
	r.AvgRating = ratio(sum, int64(len(fb)), 1)
	for stars := int64(5); stars >= 1; stars-- {
		r.Distribution = append(r.Distribution, StarCount{
			Stars:   stars,
			Count:   counts[stars],
			Percent: percent(int64(counts[stars]), int64(len(fb)), 1),
		})
	}
	return r
}

// FeedbackNewestFirst orders feedback by date, newest first.
func FeedbackNewestFirst(fb []model.Feedback) []model.Feedback {
	sorted := slices.Clone(fb)
	slices.SortStableFunc(sorted, func(a, b model.Feedback) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

// RecentReplies returns up to n replied feedback ordered by repliedAt, newest first.
func RecentReplies(fb []model.Feedback, n int) []model.Feedback {
	replied := slices.Clone(Filter(fb, FeedbackStatusIs(model.FeedbackReplied)))
	slices.SortStableFunc(replied, func(a, b model.Feedback) int {
		return repliedTime(b).Compare(repliedTime(a))
	})
	return replied[:clampN(n, len(replied))]
}

func repliedTime(f model.Feedback) time.Time {
	if f.RepliedAt == nil {
		return time.Time{}
	}
	return f.RepliedAt.Time()
}
