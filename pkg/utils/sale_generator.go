package utils

import (
	"math/rand"
	"time"

	"salestat/internal/domain/model"
)

var demoTitles = []string{
	"Air Jordan 1 Retro High",
	"Dunk Low Panda",
	"Yeezy Boost 350 V2",
	"Air Force 1 '07",
	"New Balance 550",
	"Air Max 90",
	"Gazelle Bold",
	"Samba OG",
	"Jordan 4 Retro",
	"Blazer Mid '77",
}

// SaleGenerator provides methods to generate test sale data
type SaleGenerator struct{}

// NewSaleGenerator creates a new sale generator
func NewSaleGenerator() *SaleGenerator {
	return &SaleGenerator{}
}

// GenerateSales creates a deterministic batch of test sales spread over the
// 60 days before asOf. Every tenth sale is left undated to exercise the
// exclusion path.
func (g *SaleGenerator) GenerateSales(count int, asOf time.Time) []model.Sale {
	day := midnight(asOf)

	sales := make([]model.Sale, count)
	for i := 0; i < count; i++ {
		sell := float64(120 + (i%9)*25)
		buy := float64(60 + (i%7)*15)
		sale := model.Sale{
			Title:     demoTitles[i%len(demoTitles)],
			SellPrice: sell,
			BuyPrice:  buy,
			Margin:    sell - buy,
		}
		if i%10 != 9 {
			sale.Date = day.AddDate(0, 0, -(i % 60))
		}
		sales[i] = sale
	}

	return sales
}

// GenerateRandomSales creates a randomized batch of sales spread over the 60
// days before asOf.
func (g *SaleGenerator) GenerateRandomSales(count int, asOf time.Time) []model.Sale {
	day := midnight(asOf)

	sales := make([]model.Sale, count)
	for i := 0; i < count; i++ {
		sell := float64(100 + rand.Intn(300))
		buy := sell * (0.4 + rand.Float64()*0.4)
		sales[i] = model.Sale{
			Title:     demoTitles[rand.Intn(len(demoTitles))],
			SellPrice: sell,
			BuyPrice:  buy,
			Margin:    sell - buy,
			Date:      day.AddDate(0, 0, -rand.Intn(60)),
		}
	}
	return sales
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
