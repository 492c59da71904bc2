// Package repository defines all the repository interfaces used by domain services
// Following the dependency inversion principle, domain logic depends on these interfaces,
// and infrastructure implementations provide concrete implementations
package repository

import (
	"context"
	"time"

	"salestat/internal/domain/model"
)

// ReportCache defines the interface for caching the latest report.
// Implementations should prioritize speed over durability; the cache only
// needs to survive until the next refresh cycle overwrites it.
type ReportCache interface {
	// SaveReport stores the given report as the latest one
	SaveReport(ctx context.Context, report *model.Report) error

	// GetReport retrieves the latest cached report, or nil when none exists
	GetReport(ctx context.Context) (*model.Report, error)
}

// SalePersistence defines the interface for durable sale history storage.
// Implementations should prioritize durability; the history is used for
// offline analysis and for rebuilding reports, never for serving requests.
type SalePersistence interface {
	// SaveSales persists one refresh cycle's dated sales
	SaveSales(ctx context.Context, sales []model.Sale) error

	// GetSalesBetween retrieves sales whose date falls in [from, to]
	GetSalesBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error)
}
