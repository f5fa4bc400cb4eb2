package accounting

import (
	"fmt"
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultAgingBoundaries are the upper day limits of the finite aging
// buckets. They are a default only; callers inject their own boundaries
// through configuration.
var DefaultAgingBoundaries = []int{30, 60, 90}

// BuildAgingBuckets expands boundary days into labelled buckets:
// {30,60,90} -> current, 1-30, 31-60, 61-90, 90+.
func BuildAgingBuckets(boundaries []int) []domain.AgingBucket {
	if len(boundaries) == 0 {
		boundaries = DefaultAgingBoundaries
	}

	buckets := make([]domain.AgingBucket, 0, len(boundaries)+2)
	buckets = append(buckets, domain.AgingBucket{
		Label:   "current",
		MinDays: 0,
		MaxDays: 0,
		Total:   decimal.Zero,
	})

	lower := 1
	for _, upper := range boundaries {
		buckets = append(buckets, domain.AgingBucket{
			Label:   fmt.Sprintf("%d-%d", lower, upper),
			MinDays: lower,
			MaxDays: upper,
			Total:   decimal.Zero,
		})
		lower = upper + 1
	}

	last := boundaries[len(boundaries)-1]
	buckets = append(buckets, domain.AgingBucket{
		Label:   fmt.Sprintf("%d+", last),
		MinDays: last + 1,
		MaxDays: -1,
		Total:   decimal.Zero,
	})

	return buckets
}

// BucketIndexFor places a days-overdue value into its bucket. Documents not
// yet due (daysOverdue <= 0) land in the "current" bucket.
func BucketIndexFor(daysOverdue int, buckets []domain.AgingBucket) int {
	if daysOverdue <= 0 {
		return 0
	}
	for i := 1; i < len(buckets); i++ {
		b := buckets[i]
		if daysOverdue >= b.MinDays && (b.MaxDays < 0 || daysOverdue <= b.MaxDays) {
			return i
		}
	}
	return len(buckets) - 1
}

// DaysOverdue counts whole days between the due date and the as-of date.
// Negative values mean the document is not yet due.
func DaysOverdue(dueDate, asOf time.Time) int {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	at := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return int(at.Sub(due).Hours() / 24)
}
