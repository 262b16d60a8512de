package mocks

import (
	"context"

	"github.com/ebjrabc/fasttrack-sla/internal/ingest"
	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
	"github.com/ebjrabc/fasttrack-sla/internal/service"
)

// MockSlaService implements httpapi.SlaService for handler tests.
type MockSlaService struct {
	ImportIssuesFunc        func(ctx context.Context, export *ingest.RawExport) (service.ImportSummary, error)
	RunClassificationFunc   func(ctx context.Context) (service.RunSummary, error)
	GetClassifiedIssuesFunc func(ctx context.Context) ([]models.ClassifiedIssue, error)
	GetSlaByAnalystFunc     func(ctx context.Context) ([]service.GroupReportRow, error)
	GetSlaByIssueTypeFunc   func(ctx context.Context) ([]service.GroupReportRow, error)
	GetSlaDistributionFunc  func(ctx context.Context) (service.SlaDistribution, error)
}

func (m *MockSlaService) ImportIssues(ctx context.Context, export *ingest.RawExport) (service.ImportSummary, error) {
	if m.ImportIssuesFunc != nil {
		return m.ImportIssuesFunc(ctx, export)
	}
	return service.ImportSummary{}, nil
}

func (m *MockSlaService) RunClassification(ctx context.Context) (service.RunSummary, error) {
	if m.RunClassificationFunc != nil {
		return m.RunClassificationFunc(ctx)
	}
	return service.RunSummary{}, nil
}

func (m *MockSlaService) GetClassifiedIssues(ctx context.Context) ([]models.ClassifiedIssue, error) {
	if m.GetClassifiedIssuesFunc != nil {
		return m.GetClassifiedIssuesFunc(ctx)
	}
	return nil, nil
}

func (m *MockSlaService) GetSlaByAnalyst(ctx context.Context) ([]service.GroupReportRow, error) {
	if m.GetSlaByAnalystFunc != nil {
		return m.GetSlaByAnalystFunc(ctx)
	}
	return nil, nil
}

func (m *MockSlaService) GetSlaByIssueType(ctx context.Context) ([]service.GroupReportRow, error) {
	if m.GetSlaByIssueTypeFunc != nil {
		return m.GetSlaByIssueTypeFunc(ctx)
	}
	return nil, nil
}

func (m *MockSlaService) GetSlaDistribution(ctx context.Context) (service.SlaDistribution, error) {
	if m.GetSlaDistributionFunc != nil {
		return m.GetSlaDistributionFunc(ctx)
	}
	return service.SlaDistribution{}, nil
}
