package rewards

import (
	"time"

	"github.com/homehub/backend/internal/domain/identity"
)

// Streak window: a completion keeps the streak alive when it lands within
// this duration of the previous one.
const streakWindow = 24 * time.Hour

// AwardInput carries everything needed to score one chore completion
type AwardInput struct {
	ChorePoints      int        // Per-chore override, 0 means use the space default
	CompletedAt      time.Time  // When the member completed the chore
	DueAt            *time.Time // Due date at completion time, nil for undated chores
	LastCompletionAt *time.Time // Member's previous completion in this space
	CurrentStreak    int        // Member's streak before this completion
}

// AwardResult is the outcome of scoring a completion
type AwardResult struct {
	BasePoints    int  // Points for the chore itself, after clamping
	StreakBonus   int  // Bonus for hitting a streak interval
	LatePenalty   int  // Deduction for completing past due plus grace
	Total         int  // Base + bonus - penalty, floored at zero
	NewStreak     int  // Streak after this completion
	StreakExtends bool // Whether this completion continued the streak
	IsLate        bool // Whether the completion was past due plus grace
}

// CalculateAward scores a single chore completion against the space's
// reward settings. It is a pure function so the whole reward policy is
// testable without any infrastructure.
func CalculateAward(settings identity.ChoreSettings, in AwardInput) AwardResult {
	var result AwardResult

	result.BasePoints = basePoints(settings, in.ChorePoints)
	result.NewStreak, result.StreakExtends = NextStreak(in.LastCompletionAt, in.CurrentStreak, in.CompletedAt)

	if settings.StreakBonusInterval > 0 && result.NewStreak > 0 && result.NewStreak%settings.StreakBonusInterval == 0 {
		result.StreakBonus = settings.StreakBonusPoints
	}

	if IsLate(in.DueAt, in.CompletedAt, settings.GracePeriodHours) {
		result.IsLate = true
		if settings.PenaltyEnabled {
			result.LatePenalty = settings.LatePenaltyPoints
		}
	}

	result.Total = result.BasePoints + result.StreakBonus - result.LatePenalty
	if result.Total < 0 {
		result.Total = 0
	}

	return result
}

// NextStreak computes the streak after a completion. A completion
// strictly less than 24h after the previous one extends the streak; a
// gap of 24h or more restarts it at one. The first completion ever
// starts at one.
func NextStreak(lastCompletionAt *time.Time, currentStreak int, completedAt time.Time) (int, bool) {
	if lastCompletionAt == nil || currentStreak <= 0 {
		return 1, false
	}

	gap := completedAt.Sub(*lastCompletionAt)
	if gap <= 0 {
		// Out-of-order completion, keep the streak as is
		return currentStreak, false
	}
	if gap < streakWindow {
		return currentStreak + 1, true
	}
	return 1, false
}

// IsLate reports whether a completion landed past the due date plus the
// grace period. Undated chores are never late.
func IsLate(dueAt *time.Time, completedAt time.Time, graceHours int) bool {
	if dueAt == nil {
		return false
	}
	deadline := dueAt.Add(time.Duration(graceHours) * time.Hour)
	return completedAt.After(deadline)
}

func basePoints(settings identity.ChoreSettings, chorePoints int) int {
	points := chorePoints
	if points <= 0 {
		points = settings.BasePoints
	}
	if settings.MaxPointsPerChore > 0 && points > settings.MaxPointsPerChore {
		points = settings.MaxPointsPerChore
	}
	return points
}
