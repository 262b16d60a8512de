package httpapi

import (
	"context"
	"time"

	"github.com/ebjrabc/fasttrack-sla/internal/ingest"
	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
	"github.com/ebjrabc/fasttrack-sla/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SlaService is the service surface the handlers depend on.
type SlaService interface {
	ImportIssues(ctx context.Context, export *ingest.RawExport) (service.ImportSummary, error)
	RunClassification(ctx context.Context) (service.RunSummary, error)
	GetClassifiedIssues(ctx context.Context) ([]models.ClassifiedIssue, error)
	GetSlaByAnalyst(ctx context.Context) ([]service.GroupReportRow, error)
	GetSlaByIssueType(ctx context.Context) ([]service.GroupReportRow, error)
	GetSlaDistribution(ctx context.Context) (service.SlaDistribution, error)
}
