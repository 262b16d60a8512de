package service

import (
	"context"
	"time"

	"github.com/ebjrabc/fasttrack-sla/internal/holiday"
	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
)

// IssueRepository defines the interface for database operations for service.
type IssueRepository interface {
	UpsertIssues(ctx context.Context, issues []models.Issue) error
	ListResolvedIssues(ctx context.Context) ([]models.Issue, error)
	ReplaceClassified(ctx context.Context, rows []models.ClassifiedIssue) error
	ListClassified(ctx context.Context) ([]models.ClassifiedIssue, error)
}

// HolidayCalendar resolves the holiday set covering an issue's lifetime.
type HolidayCalendar interface {
	RangeHolidays(ctx context.Context, start, end time.Time) (holiday.Set, error)
}
