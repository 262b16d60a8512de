package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ebjrabc/fasttrack-sla/internal/holiday"
	"github.com/ebjrabc/fasttrack-sla/internal/ingest"
	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
)

const (
	dbTimeout      = 5 * time.Second
	defaultWorkers = 4
)

var (
	ErrStorageFailure = errors.New("storage failure")
	// ErrIncompleteIssue flags an unresolved issue reaching the classifier.
	// Upstream filtering should prevent it; the run skips and reports it.
	ErrIncompleteIssue    = errors.New("issue has no resolution timestamp")
	ErrNoClassifiedIssues = errors.New("no classified issues found")
)

// SlaService runs SLA classification over resolved issues and serves the
// aggregate reports computed from the classified rows.
type SlaService struct {
	storage  IssueRepository
	calendar HolidayCalendar
	policy   *SlaPolicy
	workers  int
	logger   *zap.Logger
}

// NewSlaService creates a new SlaService instance.
func NewSlaService(storage IssueRepository, calendar HolidayCalendar, policy *SlaPolicy, workers int, logger *zap.Logger) *SlaService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if calendar == nil {
		panic("calendar must not be nil")
	}
	if policy == nil {
		policy = DefaultSlaPolicy()
	}
	if workers < 1 {
		workers = defaultWorkers
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &SlaService{
		storage:  storage,
		calendar: calendar,
		policy:   policy,
		workers:  workers,
		logger:   logger,
	}
}

// ImportIssues normalizes a raw export and stores the canonical records.
func (s *SlaService) ImportIssues(ctx context.Context, export *ingest.RawExport) (ImportSummary, error) {
	issues, invalid := ingest.Normalize(export)

	skipped := make([]RecordError, 0, len(invalid))
	for _, rec := range invalid {
		skipped = append(skipped, RecordError{IssueID: rec.IssueID, Reason: rec.Reason})
	}

	if len(issues) > 0 {
		dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
		defer cancel()

		if err := s.storage.UpsertIssues(dbCtx, issues); err != nil {
			return ImportSummary{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
	}

	s.logger.Info("issues imported",
		zap.Int("imported", len(issues)),
		zap.Int("skipped", len(skipped)))

	return ImportSummary{ImportedCount: len(issues), Skipped: skipped}, nil
}

// RunClassification classifies every resolved issue and replaces the stored
// classified rows. Issues are classified in parallel by a bounded worker pool;
// a malformed record is skipped and reported, never aborting the batch. A
// holiday provider failure aborts the run unless degraded mode was configured
// on the calendar.
func (s *SlaService) RunClassification(ctx context.Context) (RunSummary, error) {
	listCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	issues, err := s.storage.ListResolvedIssues(listCtx)
	cancel()
	if err != nil {
		return RunSummary{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	var (
		mu         sync.Mutex
		classified []models.ClassifiedIssue
		recErrs    []RecordError
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, issue := range issues {
		issue := issue
		g.Go(func() error {
			ci, err := s.classify(gctx, issue)
			if err != nil {
				if errors.Is(err, holiday.ErrFetch) {
					return err
				}
				s.logger.Warn("issue skipped",
					zap.String("issue_id", issue.ID),
					zap.Error(err))
				mu.Lock()
				recErrs = append(recErrs, RecordError{IssueID: issue.ID, Reason: err.Error()})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			classified = append(classified, ci)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RunSummary{}, fmt.Errorf("resolve holiday calendar: %w", err)
	}

	// Workers finish in arbitrary order; sort for deterministic storage.
	sort.Slice(classified, func(i, j int) bool { return classified[i].ID < classified[j].ID })
	sort.Slice(recErrs, func(i, j int) bool { return recErrs[i].IssueID < recErrs[j].IssueID })

	saveCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	if err := s.storage.ReplaceClassified(saveCtx, classified); err != nil {
		return RunSummary{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("classification run finished",
		zap.Int("total", len(issues)),
		zap.Int("classified", len(classified)),
		zap.Int("errors", len(recErrs)))

	return RunSummary{
		TotalIssues:     len(issues),
		ClassifiedCount: len(classified),
		Errors:          recErrs,
	}, nil
}

func (s *SlaService) classify(ctx context.Context, issue models.Issue) (models.ClassifiedIssue, error) {
	if issue.ResolvedAt == nil {
		return models.ClassifiedIssue{}, ErrIncompleteIssue
	}

	expected, err := s.policy.ExpectedHours(issue.Priority)
	if err != nil {
		return models.ClassifiedIssue{}, err
	}

	holidays, err := s.calendar.RangeHolidays(ctx, issue.CreatedAt, *issue.ResolvedAt)
	if err != nil {
		return models.ClassifiedIssue{}, err
	}

	hours, err := BusinessHours(issue.CreatedAt, *issue.ResolvedAt, holidays)
	if err != nil {
		return models.ClassifiedIssue{}, err
	}

	return models.ClassifiedIssue{
		Issue:            issue,
		ResolutionHours:  hours,
		SlaExpectedHours: expected,
		IsSlaMet:         hours <= expected,
	}, nil
}

// GetClassifiedIssues returns the stored classified rows.
func (s *SlaService) GetClassifiedIssues(ctx context.Context) ([]models.ClassifiedIssue, error) {
	rows, err := s.loadClassified(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoClassifiedIssues
	}
	return rows, nil
}

// GetSlaByAnalyst returns issue counts and mean resolution hours per analyst.
// An empty store yields an empty report.
func (s *SlaService) GetSlaByAnalyst(ctx context.Context) ([]GroupReportRow, error) {
	rows, err := s.loadClassified(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateByAnalyst(rows), nil
}

// GetSlaByIssueType returns issue counts and mean resolution hours per type.
func (s *SlaService) GetSlaByIssueType(ctx context.Context) ([]GroupReportRow, error) {
	rows, err := s.loadClassified(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateByIssueType(rows), nil
}

// GetSlaDistribution returns the met-vs-violated distribution.
func (s *SlaService) GetSlaDistribution(ctx context.Context) (SlaDistribution, error) {
	rows, err := s.loadClassified(ctx)
	if err != nil {
		return SlaDistribution{}, err
	}
	return Distribution(rows), nil
}

func (s *SlaService) loadClassified(ctx context.Context) ([]models.ClassifiedIssue, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListClassified(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return rows, nil
}
