package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"salestat/internal/domain/model"
)

const displayDateLayout = "2006-01-02"

// FormattedPeriodRow is one display-ready row of the period totals table.
type FormattedPeriodRow struct {
	Period  string `json:"period"`
	Sales   int    `json:"sales"`
	Revenue string `json:"revenue"`
	Margin  string `json:"margin"`
}

// FormattedDailyPoint is one display-ready point of the daily series.
type FormattedDailyPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// FormattedWeeklyPoint is one display-ready point of the weekly series.
type FormattedWeeklyPoint struct {
	WeekStart string `json:"week_start"`
	Revenue   string `json:"revenue"`
}

// FormattedProductRow is one display-ready row of the top-products ranking.
type FormattedProductRow struct {
	Product string `json:"product"`
	Sales   int    `json:"sales"`
}

// FormattedSaleRow is one display-ready row of the recent-sales table.
type FormattedSaleRow struct {
	Date      string `json:"date"`
	Product   string `json:"product"`
	SellPrice string `json:"sell_price"`
	BuyPrice  string `json:"buy_price"`
	Margin    string `json:"margin"`
}

// FormattedReport carries every report value in its display form: money
// rounded to the unit, percentages to one decimal, dates as YYYY-MM-DD.
type FormattedReport struct {
	AsOf            string                 `json:"as_of"`
	Empty           bool                   `json:"empty"`
	Periods         []FormattedPeriodRow   `json:"periods,omitempty"`
	MonthMarginRate string                 `json:"month_margin_rate,omitempty"`
	Daily           []FormattedDailyPoint  `json:"daily,omitempty"`
	Weekly          []FormattedWeeklyPoint `json:"weekly,omitempty"`
	TopProducts     []FormattedProductRow  `json:"top_products,omitempty"`
	Recent          []FormattedSaleRow     `json:"recent,omitempty"`
	MeanRevenue     string                 `json:"mean_revenue,omitempty"`
	MeanMargin      string                 `json:"mean_margin,omitempty"`
	LastUpdate      string                 `json:"last_update,omitempty"`
}

// FormatMoney rounds an amount to the unit and appends the currency.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.0f €", math.Round(v))
}

// FormatPercent renders a fraction as a percentage with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// FormatDate renders a calendar date in the fixed display form.
func FormatDate(d time.Time) string {
	return d.Format(displayDateLayout)
}

// Format turns a report into its display-ready counterpart. It only formats
// values; no total or series is recomputed here.
func Format(r *model.Report) *FormattedReport {
	f := &FormattedReport{
		AsOf:  FormatDate(r.AsOf),
		Empty: r.Empty,
	}
	if r.Empty {
		return f
	}

	f.Periods = []FormattedPeriodRow{
		formatPeriodRow("Today", r.Today),
		formatPeriodRow("This week", r.ThisWeek),
		formatPeriodRow("This month", r.ThisMonth),
		formatPeriodRow("All time", r.AllTime),
	}
	f.MonthMarginRate = FormatPercent(r.ThisMonth.MarginRate())

	f.Daily = make([]FormattedDailyPoint, len(r.Daily))
	for i, p := range r.Daily {
		f.Daily[i] = FormattedDailyPoint{Date: FormatDate(p.Date), Count: p.Count}
	}

	f.Weekly = make([]FormattedWeeklyPoint, len(r.Weekly))
	for i, p := range r.Weekly {
		f.Weekly[i] = FormattedWeeklyPoint{WeekStart: FormatDate(p.WeekStart), Revenue: FormatMoney(p.Revenue)}
	}

	f.TopProducts = make([]FormattedProductRow, len(r.TopProducts))
	for i, p := range r.TopProducts {
		f.TopProducts[i] = FormattedProductRow{Product: p.Title, Sales: p.Count}
	}

	f.Recent = make([]FormattedSaleRow, len(r.Recent))
	for i, s := range r.Recent {
		f.Recent[i] = FormattedSaleRow{
			Date:      FormatDate(s.Date),
			Product:   s.Title,
			SellPrice: FormatMoney(s.SellPrice),
			BuyPrice:  FormatMoney(s.BuyPrice),
			Margin:    FormatMoney(s.Margin),
		}
	}

	f.MeanRevenue = FormatMoney(r.MeanRevenue)
	f.MeanMargin = FormatMoney(r.MeanMargin)
	if !r.LastUpdate.IsZero() {
		f.LastUpdate = r.LastUpdate.Format(time.RFC3339)
	}
	return f
}

// Summary renders a report as a short plain-text digest for chat notifications.
func Summary(r *model.Report) string {
	if r.Empty {
		return fmt.Sprintf("No sales recorded as of %s.", FormatDate(r.AsOf))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sales report as of %s\n", FormatDate(r.AsOf))
	fmt.Fprintf(&b, "Today: %d sales, %s revenue\n", r.Today.Count, FormatMoney(r.Today.Revenue))
	fmt.Fprintf(&b, "This week: %d sales, %s revenue\n", r.ThisWeek.Count, FormatMoney(r.ThisWeek.Revenue))
	fmt.Fprintf(&b, "This month: %d sales, %s revenue, %s margin (%s)\n",
		r.ThisMonth.Count, FormatMoney(r.ThisMonth.Revenue),
		FormatMoney(r.ThisMonth.Margin), FormatPercent(r.ThisMonth.MarginRate()))
	fmt.Fprintf(&b, "All time: %d sales, %s revenue, %s mean per sale",
		r.AllTime.Count, FormatMoney(r.AllTime.Revenue), FormatMoney(r.MeanRevenue))
	return b.String()
}

func formatPeriodRow(label string, t model.PeriodTotals) FormattedPeriodRow {
	return FormattedPeriodRow{
		Period:  label,
		Sales:   t.Count,
		Revenue: FormatMoney(t.Revenue),
		Margin:  FormatMoney(t.Margin),
	}
}
