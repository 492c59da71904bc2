package dto

import (
	"time"

	"salestat/internal/domain/model"
)

const dateLayout = "2006-01-02"

// SaleDTO represents a data transfer object for one normalized sale.
// An empty Date means the sale had no resolvable date.
type SaleDTO struct {
	Title     string  `json:"title"`
	SellPrice float64 `json:"sell_price"`
	BuyPrice  float64 `json:"buy_price"`
	Margin    float64 `json:"margin"`
	Date      string  `json:"sale_date,omitempty"`
}

// SnapshotDTO carries one refresh cycle's complete set of normalized sales.
type SnapshotDTO struct {
	ID        string    `json:"id"`
	AsOf      string    `json:"as_of"`
	FetchedAt time.Time `json:"fetched_at"`
	Sales     []SaleDTO `json:"sales"`
}

// ToModel converts a SaleDTO to a domain model
func (d *SaleDTO) ToModel() model.Sale {
	sale := model.Sale{
		Title:     d.Title,
		SellPrice: d.SellPrice,
		BuyPrice:  d.BuyPrice,
		Margin:    d.Margin,
	}
	if d.Date != "" {
		if parsed, err := time.Parse(dateLayout, d.Date); err == nil {
			sale.Date = parsed
		}
	}
	return sale
}

// FromModel creates a SaleDTO from a domain model
func FromModel(sale model.Sale) SaleDTO {
	d := SaleDTO{
		Title:     sale.Title,
		SellPrice: sale.SellPrice,
		BuyPrice:  sale.BuyPrice,
		Margin:    sale.Margin,
	}
	if sale.Dated() {
		d.Date = sale.Date.Format(dateLayout)
	}
	return d
}

// NewSnapshot wraps a batch of sales into a snapshot for transport.
func NewSnapshot(id string, asOf time.Time, fetchedAt time.Time, sales []model.Sale) *SnapshotDTO {
	dtos := make([]SaleDTO, len(sales))
	for i, sale := range sales {
		dtos[i] = FromModel(sale)
	}
	return &SnapshotDTO{
		ID:        id,
		AsOf:      asOf.Format(dateLayout),
		FetchedAt: fetchedAt,
		Sales:     dtos,
	}
}

// SalesModels converts the snapshot's sales back to domain models.
func (s *SnapshotDTO) SalesModels() []model.Sale {
	sales := make([]model.Sale, len(s.Sales))
	for i := range s.Sales {
		sales[i] = s.Sales[i].ToModel()
	}
	return sales
}

// AsOfDate parses the snapshot's reference date; falls back to the fetch
// time's calendar date when the field is malformed.
func (s *SnapshotDTO) AsOfDate() time.Time {
	if parsed, err := time.Parse(dateLayout, s.AsOf); err == nil {
		return parsed
	}
	y, m, d := s.FetchedAt.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
