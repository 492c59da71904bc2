package model

import "time"

// PeriodTotals holds the aggregate figures for one time partition.
type PeriodTotals struct {
	Count   int
	Revenue float64
	Margin  float64
}

// MarginRate returns margin as a fraction of revenue, or 0 when there is no
// revenue. The guard keeps NaN/Inf out of every report.
func (t PeriodTotals) MarginRate() float64 {
	if t.Revenue <= 0 {
		return 0
	}
	return t.Margin / t.Revenue
}

// DailyPoint is one day of the 30-day sales-count series.
type DailyPoint struct {
	Date  time.Time
	Count int
}

// WeeklyPoint is one Monday-aligned week of the revenue series.
type WeeklyPoint struct {
	WeekStart time.Time
	Revenue   float64
}

// ProductCount is one row of the top-products ranking.
type ProductCount struct {
	Title string
	Count int
}

// Report is the full aggregation result for one snapshot of sales.
// It is a plain value: building it reads no clocks and mutates no input,
// so identical sales and AsOf always produce an identical report.
// LastUpdate is stamped by the report service when the report is published,
// not by the aggregation engine.
type Report struct {
	AsOf  time.Time
	Empty bool // no dated sales; all other fields are zero

	Today     PeriodTotals
	ThisWeek  PeriodTotals
	ThisMonth PeriodTotals
	AllTime   PeriodTotals

	Daily       []DailyPoint   // exactly 30 points ending at AsOf, oldest first
	Weekly      []WeeklyPoint  // at most 12 weeks, oldest first
	TopProducts []ProductCount // at most 10 rows
	Recent      []Sale         // at most 10 sales, newest first

	MeanRevenue float64
	MeanMargin  float64

	LastUpdate time.Time
}
