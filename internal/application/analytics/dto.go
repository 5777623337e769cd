package analytics

import (
	"time"

	"github.com/homehub/backend/internal/domain/analytics"
)

// RetentionInput selects the signup range and horizon for a cohort report
type RetentionInput struct {
	From     time.Time `form:"from" binding:"required"`
	To       time.Time `form:"to" binding:"required"`
	MaxWeeks int       `form:"max_weeks"`
}

// RetentionReport is a weekly-cohort retention breakdown
type RetentionReport struct {
	From     time.Time             `json:"from"`
	To       time.Time             `json:"to"`
	MaxWeeks int                   `json:"max_weeks"`
	Cohorts  []analytics.CohortRow `json:"cohorts"`
}

// Dashboard holds the live counters shown on a space's home screen
type Dashboard struct {
	ActiveMembers   int64 `json:"active_members"`   // Active in the last 7 days
	CompletionsWeek int64 `json:"completions_week"` // Chore completions in the last 7 days
	PointsWeek      int64 `json:"points_week"`      // Points awarded in the last 7 days
	OpenTasks       int64 `json:"open_tasks"`
	OverdueChores   int64 `json:"overdue_chores"`
}

// SnapshotInfo is the API representation of one day of counters
type SnapshotInfo struct {
	Date             time.Time `json:"date"`
	ActiveMembers    int       `json:"active_members"`
	ChoresCompleted  int       `json:"chores_completed"`
	PointsAwarded    int       `json:"points_awarded"`
	TasksCompleted   int       `json:"tasks_completed"`
	MessagesSent     int       `json:"messages_sent"`
	ExpensesRecorded int       `json:"expenses_recorded"`
}

func toSnapshotInfo(s *analytics.SpaceSnapshot) SnapshotInfo {
	return SnapshotInfo{
		Date:             s.Date,
		ActiveMembers:    s.ActiveMembers,
		ChoresCompleted:  s.ChoresCompleted,
		PointsAwarded:    s.PointsAwarded,
		TasksCompleted:   s.TasksCompleted,
		MessagesSent:     s.MessagesSent,
		ExpensesRecorded: s.ExpensesRecorded,
	}
}
