// Package service provides implementations of domain services that implement core business logic
// This package depends only on domain models and repository interfaces (not implementations)
package service

import (
	"sort"
	"time"

	"salestat/internal/domain/model"
)

const (
	dailySeriesDays  = 30
	weeklySeriesSize = 12
	topProductsSize  = 10
	recentSalesSize  = 10
)

// Aggregate computes the full report for a snapshot of sales as of the given
// reference date. It is a pure function: the reference date is an explicit
// parameter, the input slice is never mutated, and identical inputs always
// produce an identical report. Undated sales are dropped before anything else;
// when nothing remains the designated empty report is returned and no totals,
// series or divisions are computed.
func Aggregate(sales []model.Sale, asOf time.Time) *model.Report {
	asOf = Midnight(asOf)

	dated := make([]model.Sale, 0, len(sales))
	for _, s := range sales {
		if s.Dated() {
			dated = append(dated, s)
		}
	}
	if len(dated) == 0 {
		return &model.Report{AsOf: asOf, Empty: true}
	}

	report := &model.Report{AsOf: asOf}

	// Period boundaries depend on the reference date and are recomputed on
	// every call, never cached.
	ws := WeekStart(asOf)
	ms := monthStart(asOf)

	for _, s := range dated {
		addSale(&report.AllTime, s)
		if !s.Date.Before(ms) {
			addSale(&report.ThisMonth, s)
		}
		if !s.Date.Before(ws) {
			addSale(&report.ThisWeek, s)
		}
		if s.Date.Equal(asOf) {
			addSale(&report.Today, s)
		}
	}

	report.Daily = dailySeries(dated, asOf)
	report.Weekly = weeklySeries(dated)
	report.TopProducts = topProducts(dated)
	report.Recent = recentSales(dated)

	// AllTime.Count > 0 is guaranteed here, so the means are safe.
	report.MeanRevenue = report.AllTime.Revenue / float64(report.AllTime.Count)
	report.MeanMargin = report.AllTime.Margin / float64(report.AllTime.Count)

	return report
}

func addSale(t *model.PeriodTotals, s model.Sale) {
	t.Count++
	t.Revenue += s.SellPrice
	t.Margin += s.Margin
}

// Midnight truncates a time to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the most recent Monday on or before the given date.
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func monthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// dailySeries builds the fixed 30-point per-day sales count ending at asOf,
// oldest first. Days without sales contribute zero points; the length never
// varies with data sparsity.
func dailySeries(dated []model.Sale, asOf time.Time) []model.DailyPoint {
	counts := make(map[time.Time]int, len(dated))
	for _, s := range dated {
		counts[s.Date]++
	}

	series := make([]model.DailyPoint, 0, dailySeriesDays)
	for i := dailySeriesDays - 1; i >= 0; i-- {
		day := asOf.AddDate(0, 0, -i)
		series = append(series, model.DailyPoint{Date: day, Count: counts[day]})
	}
	return series
}

// weeklySeries buckets revenue into Monday-aligned weeks and returns the most
// recent weeks, oldest first. Weeks with no sales between the first and last
// active week appear as explicit zero points so the series has no silent gaps.
func weeklySeries(dated []model.Sale) []model.WeeklyPoint {
	revenue := make(map[time.Time]float64, len(dated))
	var first, last time.Time
	for _, s := range dated {
		week := WeekStart(s.Date)
		revenue[week] += s.SellPrice
		if first.IsZero() || week.Before(first) {
			first = week
		}
		if week.After(last) {
			last = week
		}
	}

	series := make([]model.WeeklyPoint, 0, weeklySeriesSize)
	for week := first; !week.After(last); week = week.AddDate(0, 0, 7) {
		series = append(series, model.WeeklyPoint{WeekStart: week, Revenue: revenue[week]})
	}
	if len(series) > weeklySeriesSize {
		series = series[len(series)-weeklySeriesSize:]
	}
	return series
}

// topProducts ranks titles by sale count, ties broken by first appearance in
// the input sequence.
func topProducts(dated []model.Sale) []model.ProductCount {
	counts := make(map[string]int, len(dated))
	order := make([]string, 0, len(dated))
	for _, s := range dated {
		if _, seen := counts[s.Title]; !seen {
			order = append(order, s.Title)
		}
		counts[s.Title]++
	}

	ranking := make([]model.ProductCount, 0, len(order))
	for _, title := range order {
		ranking = append(ranking, model.ProductCount{Title: title, Count: counts[title]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	if len(ranking) > topProductsSize {
		ranking = ranking[:topProductsSize]
	}
	return ranking
}

// recentSales returns the most recent sales by date, newest first. Sales on
// the same date keep their relative input order.
func recentSales(dated []model.Sale) []model.Sale {
	recent := make([]model.Sale, len(dated))
	copy(recent, dated)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > recentSalesSize {
		recent = recent[:recentSalesSize]
	}
	return recent
}
