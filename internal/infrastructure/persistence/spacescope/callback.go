package spacescope

import (
	"strings"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpaceCallback provides GORM callback hooks for automatic space filtering
type SpaceCallback struct {
	spaceColumn string
	required    bool
}

// NewSpaceCallback creates a new space callback handler
func NewSpaceCallback(spaceColumn string, required bool) *SpaceCallback {
	if spaceColumn == "" {
		spaceColumn = "space_id"
	}
	return &SpaceCallback{
		spaceColumn: spaceColumn,
		required:    required,
	}
}

// RegisterCallbacks registers space callbacks with GORM
func (tc *SpaceCallback) RegisterCallbacks(db *gorm.DB) {
	// Register query callback - add space filter
	_ = db.Callback().Query().Before("gorm:query").Register("space:before_query", tc.beforeQuery)

	// Register update callback - ensure space filter
	_ = db.Callback().Update().Before("gorm:update").Register("space:before_update", tc.beforeUpdate)

	// Register delete callback - ensure space filter
	_ = db.Callback().Delete().Before("gorm:delete").Register("space:before_delete", tc.beforeDelete)

	// Register row query callback - add space filter
	_ = db.Callback().Row().Before("gorm:row").Register("space:before_row", tc.beforeQuery)

	// Note: Create callback is not registered because space_id should be set
	// explicitly by the application when creating entities
}

// beforeQuery adds space filter to SELECT queries
func (tc *SpaceCallback) beforeQuery(db *gorm.DB) {
	tc.addSpaceFilter(db)
}

// beforeUpdate adds space filter to UPDATE queries
func (tc *SpaceCallback) beforeUpdate(db *gorm.DB) {
	tc.addSpaceFilter(db)
}

// beforeDelete adds space filter to DELETE queries
func (tc *SpaceCallback) beforeDelete(db *gorm.DB) {
	tc.addSpaceFilter(db)
}

// addSpaceFilter adds space filtering to the query
func (tc *SpaceCallback) addSpaceFilter(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	// Skip if unscoped
	if db.Statement.Unscoped {
		return
	}

	// Skip if already has space condition
	if tc.hasSpaceCondition(db) {
		return
	}

	// Get space ID from context
	spaceID := logger.GetSpaceID(db.Statement.Context)
	if spaceID == "" {
		if tc.required {
			_ = db.AddError(ErrSpaceIDRequired)
		}
		return
	}

	// Validate UUID format
	if _, err := uuid.Parse(spaceID); err != nil {
		_ = db.AddError(ErrInvalidSpaceID)
		return
	}

	// Add space filter using GORM's clause
	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.spaceColumn},
				Value:  spaceID,
			},
		},
	})
}

// hasSpaceCondition checks if space_id condition is already present
func (tc *SpaceCallback) hasSpaceCondition(db *gorm.DB) bool {
	// Check if there's a manual scope applied via Unscoped
	if db.Statement.Unscoped {
		return true
	}

	// Check existing where clauses for space_id
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsSpace(expr) {
					return true
				}
			}
		}
	}

	// Also check the built SQL if available
	sql := db.Statement.SQL.String()
	if sql != "" && strings.Contains(sql, tc.spaceColumn) {
		return true
	}

	return false
}

// exprContainsSpace checks if an expression contains space_id column
func (tc *SpaceCallback) exprContainsSpace(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.spaceColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.spaceColumn
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsSpace(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsSpace(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoSpaceFilter enables automatic space filtering on a GORM DB instance
// This registers callbacks that automatically add space_id filtering to all queries
func EnableAutoSpaceFilter(db *gorm.DB, required bool) {
	tc := NewSpaceCallback("space_id", required)
	tc.RegisterCallbacks(db)
}

// DisableAutoSpaceFilter removes the space callbacks (not recommended in production)
func DisableAutoSpaceFilter(db *gorm.DB) {
	// Note: GORM doesn't provide a clean way to remove callbacks
	// This is mainly for testing purposes
	_ = db.Callback().Query().Remove("space:before_query")
	_ = db.Callback().Update().Remove("space:before_update")
	_ = db.Callback().Delete().Remove("space:before_delete")
	_ = db.Callback().Row().Remove("space:before_row")
}
