package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
)

func classifiedFixture(id, analyst, issueType string, hours float64, met bool) models.ClassifiedIssue {
	resolved := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	return models.ClassifiedIssue{
		Issue: models.Issue{
			ID:           id,
			IssueType:    issueType,
			Status:       "Resolved",
			Priority:     "Medium",
			AssigneeName: analyst,
			CreatedAt:    time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			ResolvedAt:   &resolved,
		},
		ResolutionHours:  hours,
		SlaExpectedHours: 72,
		IsSlaMet:         met,
	}
}

func TestAggregateByAnalyst(t *testing.T) {
	issues := []models.ClassifiedIssue{
		classifiedFixture("1", "Alice", "Bug", 24, true),
		classifiedFixture("2", "Alice", "Task", 72, true),
		classifiedFixture("3", "Bob", "Bug", 120, false),
	}

	rows := AggregateByAnalyst(issues)
	require.Len(t, rows, 2)

	assert.Equal(t, "Alice", rows[0].Key)
	assert.Equal(t, 2, rows[0].IssueCount)
	assert.Equal(t, 48.0, rows[0].AvgResolutionHours)

	assert.Equal(t, "Bob", rows[1].Key)
	assert.Equal(t, 1, rows[1].IssueCount)
	assert.Equal(t, 120.0, rows[1].AvgResolutionHours)
}

func TestAggregateByIssueType(t *testing.T) {
	issues := []models.ClassifiedIssue{
		classifiedFixture("1", "Alice", "Bug", 24, true),
		classifiedFixture("2", "Bob", "Bug", 48, true),
		classifiedFixture("3", "Bob", "Story", 96, false),
	}

	rows := AggregateByIssueType(issues)
	require.Len(t, rows, 2)

	assert.Equal(t, "Bug", rows[0].Key)
	assert.Equal(t, 2, rows[0].IssueCount)
	assert.Equal(t, 36.0, rows[0].AvgResolutionHours)

	assert.Equal(t, "Story", rows[1].Key)
	assert.Equal(t, 1, rows[1].IssueCount)
}

func TestDistribution(t *testing.T) {
	t.Run("percentages sum to 100", func(t *testing.T) {
		issues := []models.ClassifiedIssue{
			classifiedFixture("1", "Alice", "Bug", 24, true),
			classifiedFixture("2", "Alice", "Bug", 48, true),
			classifiedFixture("3", "Bob", "Bug", 200, false),
		}

		dist := Distribution(issues)
		require.Equal(t, 3, dist.Total)
		require.Len(t, dist.Rows, 2)

		var sum float64
		for _, row := range dist.Rows {
			sum += row.Percentage
		}
		assert.InDelta(t, 100.0, sum, 0.02)

		assert.True(t, dist.Rows[0].SlaMet)
		assert.Equal(t, 2, dist.Rows[0].IssueCount)
		assert.InDelta(t, 66.67, dist.Rows[0].Percentage, 0.001)
		assert.False(t, dist.Rows[1].SlaMet)
		assert.Equal(t, 1, dist.Rows[1].IssueCount)
		assert.InDelta(t, 33.33, dist.Rows[1].Percentage, 0.001)
	})

	t.Run("all met yields a single group", func(t *testing.T) {
		dist := Distribution([]models.ClassifiedIssue{
			classifiedFixture("1", "Alice", "Bug", 24, true),
		})
		require.Len(t, dist.Rows, 1)
		assert.True(t, dist.Rows[0].SlaMet)
		assert.Equal(t, 100.0, dist.Rows[0].Percentage)
	})

	t.Run("empty input yields a well-defined empty report", func(t *testing.T) {
		dist := Distribution(nil)
		assert.Equal(t, 0, dist.Total)
		assert.Empty(t, dist.Rows)
	})
}

func TestAggregation_InvariantUnderPermutation(t *testing.T) {
	issues := []models.ClassifiedIssue{
		classifiedFixture("1", "Alice", "Bug", 24, true),
		classifiedFixture("2", "Bob", "Task", 72, true),
		classifiedFixture("3", "Carol", "Bug", 96, false),
		classifiedFixture("4", "Alice", "Story", 120, false),
		classifiedFixture("5", "Bob", "Bug", 48, true),
	}

	byAnalyst := AggregateByAnalyst(issues)
	byType := AggregateByIssueType(issues)
	dist := Distribution(issues)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.ClassifiedIssue, len(issues))
		copy(shuffled, issues)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, byAnalyst, AggregateByAnalyst(shuffled))
		assert.Equal(t, byType, AggregateByIssueType(shuffled))
		assert.Equal(t, dist, Distribution(shuffled))
	}
}
