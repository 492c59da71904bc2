package service

import (
	"strconv"
	"time"

	"salestat/internal/domain/model"
)

// Property names as they appear in the hosted sales database.
const (
	propTitle     = "Sneakers Nom"
	propSellPrice = "Prix de Vente"
	propBuyPrice  = "Prix d'Achat"
	propSaleDate  = "Date de Vente"
)

// PlaceholderTitle is substituted when a record carries no product name.
const PlaceholderTitle = "Produit sans nom"

const sourceDateLayout = "2006-01-02"

// Normalize converts one raw source record into a Sale. Every field access
// falls back to a default on a missing key or shape mismatch, so Normalize
// never fails: a record without prices yields zero amounts, a record without
// a resolvable date yields the zero Date sentinel and is later excluded from
// aggregation.
func Normalize(raw model.RawRecord) model.Sale {
	props, _ := lookup(map[string]any(raw), "properties")

	sell := numberAt(props, propSellPrice, "number")
	buy := numberAt(props, propBuyPrice, "number")

	return model.Sale{
		Title:     stringAt(props, PlaceholderTitle, propTitle, "title", "0", "text", "content"),
		SellPrice: sell,
		BuyPrice:  buy,
		Margin:    sell - buy,
		Date:      dateAt(props, propSaleDate, "date", "start"),
	}
}

// NormalizeAll normalizes a batch of raw records in source order.
func NormalizeAll(raw []model.RawRecord) []model.Sale {
	sales := make([]model.Sale, len(raw))
	for i, r := range raw {
		sales[i] = Normalize(r)
	}
	return sales
}

// lookup walks a decoded JSON value along the given path. A numeric segment
// indexes a slice, any other segment keys a map. It reports false as soon as
// a segment does not match the value's shape.
func lookup(v any, path ...string) (any, bool) {
	for _, seg := range path {
		switch node := v.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			v = node[idx]
		default:
			return nil, false
		}
	}
	return v, true
}

// stringAt resolves a string at path, or fallback on any mismatch.
func stringAt(v any, fallback string, path ...string) string {
	node, ok := lookup(v, path...)
	if !ok {
		return fallback
	}
	s, ok := node.(string)
	if !ok {
		return fallback
	}
	return s
}

// numberAt resolves a non-nil number at path, or 0 on any mismatch.
func numberAt(v any, path ...string) float64 {
	node, ok := lookup(v, path...)
	if !ok {
		return 0
	}
	switch n := node.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// dateAt resolves an ISO calendar date at path, or the zero time on any
// mismatch or parse failure. Parsed dates are UTC midnight.
func dateAt(v any, path ...string) time.Time {
	node, ok := lookup(v, path...)
	if !ok {
		return time.Time{}
	}
	s, ok := node.(string)
	if !ok {
		return time.Time{}
	}
	d, err := time.Parse(sourceDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return d
}
