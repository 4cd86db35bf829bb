// Package aggregate buckets records by calendar day for the activity views.
package aggregate

import (
	"sort"
	"time"

	"twitterhistory/pkg/models"
)

// DayBucket is one (date, count) pair. Date is midnight UTC of the bucket's
// calendar day.
type DayBucket struct {
	Date  time.Time
	Count int
}

// PerDay buckets records by the UTC calendar date of their timestamp and
// returns one bucket per distinct date, sorted ascending. Dates with no
// records are absent; callers wanting a continuous axis use FillGaps.
func PerDay(records []models.Record) []DayBucket {
	counts := make(map[time.Time]int)
	for _, rec := range records {
		ts := rec.Time.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		counts[day]++
	}

	buckets := make([]DayBucket, 0, len(counts))
	for day, count := range counts {
		buckets = append(buckets, DayBucket{Date: day, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})

	return buckets
}

// FillGaps inserts zero-count buckets for every date between the first and
// last bucket, so the series forms a continuous daily axis. The input must
// be sorted ascending, as returned by PerDay.
func FillGaps(buckets []DayBucket) []DayBucket {
	if len(buckets) < 2 {
		return buckets
	}

	filled := make([]DayBucket, 0, len(buckets))
	filled = append(filled, buckets[0])
	for _, b := range buckets[1:] {
		prev := filled[len(filled)-1].Date
		for day := prev.AddDate(0, 0, 1); day.Before(b.Date); day = day.AddDate(0, 0, 1) {
			filled = append(filled, DayBucket{Date: day, Count: 0})
		}
		filled = append(filled, b)
	}

	return filled
}
