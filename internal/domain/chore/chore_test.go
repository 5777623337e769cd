package chore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChore(t *testing.T) {
	spaceID := uuid.New()

	t.Run("creates active chore", func(t *testing.T) {
		c, err := NewChore(spaceID, "Dishes", RecurrenceDaily)
		require.NoError(t, err)

		assert.Equal(t, spaceID, c.SpaceID)
		assert.Equal(t, "Dishes", c.Name)
		assert.Equal(t, ChoreStatusActive, c.Status)
		assert.Equal(t, 0, c.Points)
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewChore(spaceID, "  ", RecurrenceDaily)
		assert.Error(t, err)
	})

	t.Run("rejects invalid recurrence", func(t *testing.T) {
		_, err := NewChore(spaceID, "Dishes", Recurrence("hourly"))
		assert.Error(t, err)
	})
}

func TestChore_Complete(t *testing.T) {
	spaceID := uuid.New()
	userID := uuid.New()

	t.Run("records completion and emits event", func(t *testing.T) {
		c, err := NewChore(spaceID, "Dishes", RecurrenceDaily)
		require.NoError(t, err)
		c.ClearDomainEvents()

		completedAt := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
		completion, err := c.Complete(userID, completedAt)
		require.NoError(t, err)

		assert.Equal(t, c.ID, completion.ChoreID)
		assert.Equal(t, userID, completion.CompletedBy)
		assert.Equal(t, completedAt, completion.CompletedAt)
		assert.Equal(t, 0, completion.PointsAwarded)
		require.NotNil(t, c.LastCompletedAt)
		assert.Equal(t, completedAt, *c.LastCompletedAt)

		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		completed, ok := events[0].(*ChoreCompletedEvent)
		require.True(t, ok)
		assert.Equal(t, completion.ID, completed.CompletionID)
		assert.Equal(t, spaceID, completed.SpaceID())
	})

	t.Run("captures due date before advancing it", func(t *testing.T) {
		c, err := NewChore(spaceID, "Dishes", RecurrenceDaily)
		require.NoError(t, err)
		due := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
		c.SetDueAt(&due)

		completedAt := due.Add(2 * time.Hour)
		completion, err := c.Complete(userID, completedAt)
		require.NoError(t, err)

		require.NotNil(t, completion.DueAt)
		assert.Equal(t, due, *completion.DueAt)
		require.NotNil(t, c.DueAt)
		assert.True(t, c.DueAt.After(completedAt))
	})

	t.Run("rejects completion of paused chore", func(t *testing.T) {
		c, err := NewChore(spaceID, "Dishes", RecurrenceDaily)
		require.NoError(t, err)
		require.NoError(t, c.Pause())

		_, err = c.Complete(userID, time.Now())
		assert.Error(t, err)
	})

	t.Run("one-shot chore keeps its due date", func(t *testing.T) {
		c, err := NewChore(spaceID, "Fix the fence", RecurrenceNone)
		require.NoError(t, err)
		due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		c.SetDueAt(&due)

		_, err = c.Complete(userID, due.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, due, *c.DueAt)
	})
}

func TestNextDueDate(t *testing.T) {
	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("daily advances one day", func(t *testing.T) {
		next := nextDueDate(due, RecurrenceDaily, due.Add(time.Hour))
		assert.Equal(t, due.AddDate(0, 0, 1), next)
	})

	t.Run("weekly advances one week", func(t *testing.T) {
		next := nextDueDate(due, RecurrenceWeekly, due.Add(time.Hour))
		assert.Equal(t, due.AddDate(0, 0, 7), next)
	})

	t.Run("monthly advances one month", func(t *testing.T) {
		next := nextDueDate(due, RecurrenceMonthly, due.Add(time.Hour))
		assert.Equal(t, due.AddDate(0, 1, 0), next)
	})

	t.Run("skipped periods collapse into the next future date", func(t *testing.T) {
		// Completed 3 days late on a daily chore
		completedAt := due.AddDate(0, 0, 3).Add(time.Hour)
		next := nextDueDate(due, RecurrenceDaily, completedAt)
		assert.True(t, next.After(completedAt))
		assert.Equal(t, due.AddDate(0, 0, 4), next)
	})
}

func TestChore_StatusTransitions(t *testing.T) {
	c, err := NewChore(uuid.New(), "Dishes", RecurrenceDaily)
	require.NoError(t, err)

	require.NoError(t, c.Pause())
	assert.Error(t, c.Pause())
	require.NoError(t, c.Resume())
	assert.Error(t, c.Resume())
	require.NoError(t, c.Archive())
	assert.Error(t, c.Archive())
}

func TestChore_IsOverdue(t *testing.T) {
	c, err := NewChore(uuid.New(), "Dishes", RecurrenceDaily)
	require.NoError(t, err)

	now := time.Now()
	assert.False(t, c.IsOverdue(now)) // no due date

	past := now.Add(-time.Hour)
	c.SetDueAt(&past)
	assert.True(t, c.IsOverdue(now))

	require.NoError(t, c.Pause())
	assert.False(t, c.IsOverdue(now))
}
