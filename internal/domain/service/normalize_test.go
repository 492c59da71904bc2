package service_test

import (
	"testing"
	"time"

	"salestat/internal/domain/model"
	"salestat/internal/domain/service"
)

func rawRecord(title string, sell, buy any, saleDate string) model.RawRecord {
	props := map[string]any{
		"Sneakers Nom": map[string]any{
			"title": []any{
				map[string]any{"text": map[string]any{"content": title}},
			},
		},
		"Prix de Vente": map[string]any{"number": sell},
		"Prix d'Achat":  map[string]any{"number": buy},
		"Date de Vente": map[string]any{"date": map[string]any{"start": saleDate}},
	}
	return model.RawRecord{"properties": props}
}

func TestNormalizeCompleteRecord(t *testing.T) {
	s := service.Normalize(rawRecord("Air Jordan 1 Retro High", 250.0, 140.0, "2024-03-15"))

	if s.Title != "Air Jordan 1 Retro High" {
		t.Errorf("title wrong: %q", s.Title)
	}
	if s.SellPrice != 250 || s.BuyPrice != 140 {
		t.Errorf("prices wrong: %f / %f", s.SellPrice, s.BuyPrice)
	}
	if s.Margin != 110 {
		t.Errorf("margin must be sell - buy, got %f", s.Margin)
	}
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !s.Date.Equal(want) {
		t.Errorf("date wrong: %v", s.Date)
	}
	if !s.Dated() {
		t.Error("sale must be dated")
	}
}

func TestNormalizeMissingTitle(t *testing.T) {
	raw := model.RawRecord{"properties": map[string]any{
		"Sneakers Nom":  map[string]any{"title": []any{}},
		"Date de Vente": map[string]any{"date": map[string]any{"start": "2024-03-15"}},
	}}

	s := service.Normalize(raw)

	if s.Title != service.PlaceholderTitle {
		t.Errorf("missing title must fall back to placeholder, got %q", s.Title)
	}
}

func TestNormalizeMissingPrices(t *testing.T) {
	raw := model.RawRecord{"properties": map[string]any{
		"Sneakers Nom": map[string]any{
			"title": []any{map[string]any{"text": map[string]any{"content": "Dunk Low"}}},
		},
		"Date de Vente": map[string]any{"date": map[string]any{"start": "2024-03-15"}},
	}}

	s := service.Normalize(raw)

	if s.SellPrice != 0 || s.BuyPrice != 0 || s.Margin != 0 {
		t.Errorf("missing prices must default to zero: %f / %f / %f", s.SellPrice, s.BuyPrice, s.Margin)
	}
	// Still a valid dated sale
	if !s.Dated() {
		t.Error("record without prices but with a date must stay dated")
	}
}

func TestNormalizeNullPrice(t *testing.T) {
	s := service.Normalize(rawRecord("X", nil, 40.0, "2024-03-15"))

	if s.SellPrice != 0 {
		t.Errorf("null price must default to 0, got %f", s.SellPrice)
	}
	if s.Margin != -40 {
		t.Errorf("margin must be computed after defaulting, got %f", s.Margin)
	}
}

func TestNormalizeBadDate(t *testing.T) {
	for _, bad := range []string{"", "not-a-date", "15/03/2024", "2024-3-15"} {
		s := service.Normalize(rawRecord("X", 10.0, 5.0, bad))
		if s.Dated() {
			t.Errorf("date %q must yield the undated sentinel", bad)
		}
	}
}

func TestNormalizeMissingDate(t *testing.T) {
	raw := model.RawRecord{"properties": map[string]any{
		"Sneakers Nom": map[string]any{
			"title": []any{map[string]any{"text": map[string]any{"content": "X"}}},
		},
		"Prix de Vente": map[string]any{"number": 10.0},
	}}

	s := service.Normalize(raw)

	if s.Dated() {
		t.Error("missing date must yield the undated sentinel")
	}
	if !s.Date.IsZero() {
		t.Errorf("sentinel must be the zero time, got %v", s.Date)
	}
}

func TestNormalizeGarbageRecord(t *testing.T) {
	// Shape mismatches everywhere must still produce a default sale
	s := service.Normalize(model.RawRecord{"properties": "not even a map"})

	if s.Title != service.PlaceholderTitle || s.SellPrice != 0 || s.BuyPrice != 0 || s.Margin != 0 || s.Dated() {
		t.Errorf("garbage record must normalize to all defaults: %+v", s)
	}
}

func TestNormalizeAllKeepsSourceOrder(t *testing.T) {
	raw := []model.RawRecord{
		rawRecord("first", 1.0, 0.0, "2024-01-01"),
		rawRecord("second", 2.0, 0.0, "2024-01-02"),
	}

	sales := service.NormalizeAll(raw)

	if len(sales) != 2 || sales[0].Title != "first" || sales[1].Title != "second" {
		t.Errorf("batch normalization must keep source order: %+v", sales)
	}
}
