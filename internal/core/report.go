package core

import (
	"sort"
	"time"
)

// DayBucket is revenue summed over one calendar day.
type DayBucket struct {
	Day     time.Time // midnight, local
	Revenue float64
}

// ProductBucket is revenue summed over one product name.
type ProductBucket struct {
	Name    string
	Revenue float64
}

// Overview carries the fixed reporting windows computed from "now":
// today, a rolling 7-day window inclusive of today, and the current
// month up to today.
type Overview struct {
	TodayRevenue float64
	Last7Revenue float64
	MonthRevenue float64

	TodayByProduct []ProductBucket
	Last7ByDay     []DayBucket
	MonthByDay     []DayBucket
}

// dateOf truncates a timestamp to midnight in its own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TotalRevenue sums the revenue column over all rows.
func TotalRevenue(rows []SaleRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Revenue
	}
	return total
}

// FilterByDateRange keeps rows whose calendar date falls within
// [start, end] inclusive. Time-of-day on the boundaries is ignored.
func FilterByDateRange(rows []SaleRow, start, end time.Time) []SaleRow {
	s, e := dateOf(start), dateOf(end)
	out := make([]SaleRow, 0, len(rows))
	for _, r := range rows {
		d := dateOf(r.SoldAt)
		if !d.Before(s) && !d.After(e) {
			out = append(out, r)
		}
	}
	return out
}

// FilterToday keeps rows sold on the same calendar date as now.
func FilterToday(rows []SaleRow, now time.Time) []SaleRow {
	today := dateOf(now)
	out := make([]SaleRow, 0, len(rows))
	for _, r := range rows {
		if dateOf(r.SoldAt).Equal(today) {
			out = append(out, r)
		}
	}
	return out
}

// FilterLast7Days keeps rows from the start of the calendar day six
// days ago through now, a rolling 7-day window inclusive of today.
// A sale at D-6 00:01 is in while D-7 23:59 is out, regardless of the
// time of day on D.
func FilterLast7Days(rows []SaleRow, now time.Time) []SaleRow {
	cutoff := dateOf(now).AddDate(0, 0, -6)
	out := make([]SaleRow, 0, len(rows))
	for _, r := range rows {
		if !r.SoldAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// FilterMonthToDate keeps rows dated between the 1st of the current
// month and today, inclusive.
func FilterMonthToDate(rows []SaleRow, now time.Time) []SaleRow {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return FilterByDateRange(rows, first, now)
}

// GroupByDay buckets rows by calendar date, summing revenue per
// bucket. Output is ordered by date ascending for charting.
func GroupByDay(rows []SaleRow) []DayBucket {
	sums := make(map[time.Time]float64)
	for _, r := range rows {
		sums[dateOf(r.SoldAt)] += r.Revenue
	}
	out := make([]DayBucket, 0, len(sums))
	for day, rev := range sums {
		out = append(out, DayBucket{Day: day, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// GroupByProduct buckets rows by product name, summing revenue per
// bucket, ordered by name ascending.
func GroupByProduct(rows []SaleRow) []ProductBucket {
	sums := make(map[string]float64)
	for _, r := range rows {
		sums[r.Product] += r.Revenue
	}
	out := make([]ProductBucket, 0, len(sums))
	for name, rev := range sums {
		out = append(out, ProductBucket{Name: name, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BuildOverview derives the three fixed reporting windows from the
// full sale listing. An empty listing yields empty bucket sets.
func BuildOverview(rows []SaleRow, now time.Time) Overview {
	today := FilterToday(rows, now)
	last7 := FilterLast7Days(rows, now)
	month := FilterMonthToDate(rows, now)

	return Overview{
		TodayRevenue:   TotalRevenue(today),
		Last7Revenue:   TotalRevenue(last7),
		MonthRevenue:   TotalRevenue(month),
		TodayByProduct: GroupByProduct(today),
		Last7ByDay:     GroupByDay(last7),
		MonthByDay:     GroupByDay(month),
	}
}
