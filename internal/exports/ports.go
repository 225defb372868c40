package exports

import (
	"context"

	"sakkanal_backend/internal/exports/csvexport"
)

// AnalyticsSource provides the summary exported from the trends page.
// It is implemented by the analytics service.
type AnalyticsSource interface {
	ExportSummary(ctx context.Context) (csvexport.Analytics, error)
}
