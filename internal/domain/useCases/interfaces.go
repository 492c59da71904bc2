package useCases

import (
	"context"
	"net/http"
	"time"

	"salestat/internal/domain/model"
)

// ReportService defines the interface for building and querying sales reports.
type ReportService interface {
	ProcessSnapshot(ctx context.Context, sales []model.Sale, asOf time.Time) (*model.Report, error)
	LatestReport(ctx context.Context) (*model.Report, error)
}

// Broadcaster defines an interface for pushing fresh reports to WebSocket/API layers.
type Broadcaster interface {
	BroadcastReport(report *model.Report)
	Handler() func(http.ResponseWriter, *http.Request)
}

// Notifier defines an interface for pushing report summaries to a chat channel.
type Notifier interface {
	SendSummary(ctx context.Context, summary string) error
}
