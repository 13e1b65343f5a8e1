package incidents

import (
	"time"

	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

// DayBuckets maps start-of-day timestamps to incident buckets while
// preserving the order in which days were first encountered (Go maps
// do not iterate in insertion order).
type DayBuckets struct {
	order   []int64
	buckets map[int64]*models.DayBucket
}

// Days returns the bucket keys in insertion order.
func (b *DayBuckets) Days() []int64 {
	return b.order
}

// Get returns the bucket for a day key, or nil.
func (b *DayBuckets) Get(day int64) *models.DayBucket {
	return b.buckets[day]
}

// Len returns the number of distinct days.
func (b *DayBuckets) Len() int {
	return len(b.order)
}

// BucketByDay groups incidents into calendar-day buckets in the given
// timezone, keyed by the day's start timestamp.
//
// Impact resolution per bucket: DOWN is sticky and never displaced;
// among non-DOWN values the last incident processed wins. This is a
// last-write policy, not a max policy, and it drives badge coloring,
// so the input's iteration order is significant.
func BucketByDay(list []models.Incident, loc *time.Location) *DayBuckets {
	if loc == nil {
		loc = time.UTC
	}

	out := &DayBuckets{buckets: make(map[int64]*models.DayBucket)}
	for _, inc := range list {
		t := time.Unix(inc.StartedAt, 0).In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).Unix()

		bucket, ok := out.buckets[day]
		if !ok {
			bucket = &models.DayBucket{Impact: inc.Impact}
			out.buckets[day] = bucket
			out.order = append(out.order, day)
		}

		bucket.IDs = append(bucket.IDs, inc.ID)
		if bucket.Impact != status.Down {
			bucket.Impact = inc.Impact
		}
	}
	return out
}
