package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/ebjrabc/fasttrack-sla/internal/holiday"
	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
)

// MockIssueRepository is a mock implementation of the IssueRepository interface
// for testing the service layer.
type MockIssueRepository struct {
	UpsertIssuesFunc       func(ctx context.Context, issues []models.Issue) error
	ListResolvedIssuesFunc func(ctx context.Context) ([]models.Issue, error)
	ReplaceClassifiedFunc  func(ctx context.Context, rows []models.ClassifiedIssue) error
	ListClassifiedFunc     func(ctx context.Context) ([]models.ClassifiedIssue, error)
}

func (m *MockIssueRepository) UpsertIssues(ctx context.Context, issues []models.Issue) error {
	if m.UpsertIssuesFunc != nil {
		return m.UpsertIssuesFunc(ctx, issues)
	}
	return errors.New("UpsertIssuesFunc not implemented")
}

func (m *MockIssueRepository) ListResolvedIssues(ctx context.Context) ([]models.Issue, error) {
	if m.ListResolvedIssuesFunc != nil {
		return m.ListResolvedIssuesFunc(ctx)
	}
	return nil, errors.New("ListResolvedIssuesFunc not implemented")
}

func (m *MockIssueRepository) ReplaceClassified(ctx context.Context, rows []models.ClassifiedIssue) error {
	if m.ReplaceClassifiedFunc != nil {
		return m.ReplaceClassifiedFunc(ctx, rows)
	}
	return errors.New("ReplaceClassifiedFunc not implemented")
}

func (m *MockIssueRepository) ListClassified(ctx context.Context) ([]models.ClassifiedIssue, error) {
	if m.ListClassifiedFunc != nil {
		return m.ListClassifiedFunc(ctx)
	}
	return nil, errors.New("ListClassifiedFunc not implemented")
}

// MockHolidayCalendar is a mock implementation of the HolidayCalendar
// interface. The zero value returns an empty holiday set.
type MockHolidayCalendar struct {
	RangeHolidaysFunc func(ctx context.Context, start, end time.Time) (holiday.Set, error)
}

func (m *MockHolidayCalendar) RangeHolidays(ctx context.Context, start, end time.Time) (holiday.Set, error) {
	if m.RangeHolidaysFunc != nil {
		return m.RangeHolidaysFunc(ctx, start, end)
	}
	return holiday.Set{}, nil
}
