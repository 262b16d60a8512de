package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebjrabc/fasttrack-sla/internal/repository"
	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
)

func setupTestRepo(t *testing.T) *repository.IssueRepository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewIssueRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func issueFixture(id, status, priority string, resolved *time.Time) models.Issue {
	return models.Issue{
		ID:            id,
		IssueType:     "Bug",
		Status:        status,
		Priority:      priority,
		AssigneeID:    "7",
		AssigneeName:  "Alice",
		AssigneeEmail: "alice@example.com",
		CreatedAt:     time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC),
		ResolvedAt:    resolved,
	}
}

func TestIssueRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	resolved := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

	t.Run("UpsertIssues and ListResolvedIssues", func(t *testing.T) {
		err := repo.UpsertIssues(ctx, []models.Issue{
			issueFixture("1", "Resolved", "High", &resolved),
			issueFixture("2", "Done", "Medium", &resolved),
			issueFixture("3", "Open", "Low", nil),
			issueFixture("4", "In Progress", "High", nil),
		})
		require.NoError(t, err)

		rows, err := repo.ListResolvedIssues(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2, "only Done/Resolved issues with resolved_at qualify")

		assert.Equal(t, "1", rows[0].ID)
		assert.Equal(t, "2", rows[1].ID)
		assert.Equal(t, time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC), rows[0].CreatedAt)
		require.NotNil(t, rows[0].ResolvedAt)
		assert.Equal(t, resolved, *rows[0].ResolvedAt)
	})

	t.Run("upsert replaces existing rows", func(t *testing.T) {
		updated := issueFixture("1", "Resolved", "Low", &resolved)
		require.NoError(t, repo.UpsertIssues(ctx, []models.Issue{updated}))

		rows, err := repo.ListResolvedIssues(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Low", rows[0].Priority)
	})

	t.Run("ReplaceClassified and ListClassified round-trip", func(t *testing.T) {
		classified := []models.ClassifiedIssue{
			{
				Issue:            issueFixture("1", "Resolved", "High", &resolved),
				ResolutionHours:  48,
				SlaExpectedHours: 24,
				IsSlaMet:         false,
			},
			{
				Issue:            issueFixture("2", "Done", "Medium", &resolved),
				ResolutionHours:  48,
				SlaExpectedHours: 72,
				IsSlaMet:         true,
			},
		}
		require.NoError(t, repo.ReplaceClassified(ctx, classified))

		rows, err := repo.ListClassified(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "1", rows[0].ID)
		assert.Equal(t, 48.0, rows[0].ResolutionHours)
		assert.Equal(t, 24.0, rows[0].SlaExpectedHours)
		assert.False(t, rows[0].IsSlaMet)
		assert.True(t, rows[1].IsSlaMet)
		require.NotNil(t, rows[0].ResolvedAt)
		assert.Equal(t, resolved, *rows[0].ResolvedAt)
	})

	t.Run("ReplaceClassified rewrites wholesale", func(t *testing.T) {
		replacement := []models.ClassifiedIssue{
			{
				Issue:            issueFixture("9", "Resolved", "Low", &resolved),
				ResolutionHours:  24,
				SlaExpectedHours: 120,
				IsSlaMet:         true,
			},
		}
		require.NoError(t, repo.ReplaceClassified(ctx, replacement))

		rows, err := repo.ListClassified(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "9", rows[0].ID)
	})

	t.Run("ReplaceClassified with empty set clears the table", func(t *testing.T) {
		require.NoError(t, repo.ReplaceClassified(ctx, nil))

		rows, err := repo.ListClassified(ctx)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("ReplaceClassified rejects rows without resolved_at", func(t *testing.T) {
		bad := []models.ClassifiedIssue{
			{Issue: issueFixture("1", "Resolved", "High", nil)},
		}
		assert.Error(t, repo.ReplaceClassified(ctx, bad))
	})
}
