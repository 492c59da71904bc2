package model

import "time"

// RawRecord is one decoded JSON page returned by the hosted sales database.
// Its shape is owned by the source; field access goes through the normalizer.
type RawRecord map[string]any

// Sale is a single line-item transaction extracted from a raw record.
// Date is a calendar date at UTC midnight. The zero Date means the source
// record had no resolvable sale date; such sales are excluded from every
// aggregation and must never be treated as dated at the epoch.
type Sale struct {
	Title     string
	SellPrice float64
	BuyPrice  float64
	Margin    float64 // always SellPrice - BuyPrice
	Date      time.Time
}

// Dated reports whether the sale carries a resolvable calendar date.
func (s Sale) Dated() bool {
	return !s.Date.IsZero()
}
