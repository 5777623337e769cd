// Package spacescope provides multi-space database scoping for GORM.
//
// This package implements automatic space_id filtering to prevent cross-space
// data access at the repository layer. It extracts the space ID from the request
// context and automatically applies WHERE space_id = ? conditions to all queries.
//
// Usage:
//
//	db := spacescope.NewSpaceDB(gormDB)
//	scopedDB := db.WithContext(ctx) // automatically applies space filtering
//	scopedDB.Find(&chores) // WHERE space_id = 'xxx' is auto-added
package spacescope

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// ErrSpaceIDRequired is returned when space_id is required but not found
var ErrSpaceIDRequired = errors.New("space_id is required but not found in context")

// ErrInvalidSpaceID is returned when space_id format is invalid
var ErrInvalidSpaceID = errors.New("invalid space_id format")

// SpaceScope applies space filtering to GORM queries
func SpaceScope(spaceID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("space_id = ?", spaceID)
	}
}

// SpaceScopeString applies space filtering using string space ID
func SpaceScopeString(spaceID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("space_id = ?", spaceID)
	}
}

// SpaceCreateScope sets space_id on create operations
func SpaceCreateScope(spaceID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Set("space_id", spaceID)
	}
}

// SpaceDB wraps GORM DB with automatic space scoping
type SpaceDB struct {
	db          *gorm.DB
	spaceColumn string
	required    bool
}

// Config holds configuration for SpaceDB
type Config struct {
	// SpaceColumn is the name of the space ID column (default: "space_id")
	SpaceColumn string
	// Required determines if space_id is mandatory (default: true)
	Required bool
}

// DefaultConfig returns default SpaceDB configuration
func DefaultConfig() Config {
	return Config{
		SpaceColumn: "space_id",
		Required:    true,
	}
}

// NewSpaceDB creates a new SpaceDB with default configuration
func NewSpaceDB(db *gorm.DB) *SpaceDB {
	return NewSpaceDBWithConfig(db, DefaultConfig())
}

// NewSpaceDBWithConfig creates a new SpaceDB with custom configuration
func NewSpaceDBWithConfig(db *gorm.DB, cfg Config) *SpaceDB {
	if cfg.SpaceColumn == "" {
		cfg.SpaceColumn = "space_id"
	}
	return &SpaceDB{
		db:          db,
		spaceColumn: cfg.SpaceColumn,
		required:    cfg.Required,
	}
}

// DB returns the underlying GORM DB without space scoping
// Use with caution - this bypasses space isolation
func (t *SpaceDB) DB() *gorm.DB {
	return t.db
}

// WithContext returns a GORM DB scoped to the space from context.
// It extracts space_id from the context (set by space middleware)
// and automatically applies the space filter to all queries.
//
// If space_id is not found in context and Required is true, it returns
// a DB that will error on any operation.
func (t *SpaceDB) WithContext(ctx context.Context) *gorm.DB {
	spaceID := logger.GetSpaceID(ctx)

	if spaceID == "" {
		if t.required {
			// Return a DB that will error on execution
			db := t.db.WithContext(ctx)
			_ = db.AddError(ErrSpaceIDRequired)
			return db
		}
		// If not required, return DB without space scope
		return t.db.WithContext(ctx)
	}

	// Validate UUID format
	if _, err := uuid.Parse(spaceID); err != nil {
		db := t.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidSpaceID)
		return db
	}

	// Apply space scope
	return t.db.WithContext(ctx).Scopes(SpaceScopeString(spaceID))
}

// WithSpace returns a GORM DB scoped to a specific space ID.
// Use this when you have the space ID directly rather than from context.
func (t *SpaceDB) WithSpace(spaceID uuid.UUID) *gorm.DB {
	if spaceID == uuid.Nil {
		if t.required {
			db := t.db
			_ = db.AddError(ErrSpaceIDRequired)
			return db
		}
		return t.db
	}
	return t.db.Scopes(SpaceScope(spaceID))
}

// WithSpaceString returns a GORM DB scoped to a specific space ID string.
func (t *SpaceDB) WithSpaceString(spaceID string) *gorm.DB {
	if spaceID == "" {
		if t.required {
			db := t.db
			_ = db.AddError(ErrSpaceIDRequired)
			return db
		}
		return t.db
	}

	// Validate UUID format
	if _, err := uuid.Parse(spaceID); err != nil {
		db := t.db
		_ = db.AddError(ErrInvalidSpaceID)
		return db
	}

	return t.db.Scopes(SpaceScopeString(spaceID))
}

// ForSpace creates a new SpaceDB instance scoped to a specific context.
// This is useful for creating a scoped DB that can be passed around.
func (t *SpaceDB) ForSpace(ctx context.Context, spaceID uuid.UUID) *gorm.DB {
	return t.db.WithContext(ctx).Scopes(SpaceScope(spaceID))
}

// Transaction executes a function within a database transaction with space scope
func (t *SpaceDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	spaceID := logger.GetSpaceID(ctx)

	if spaceID == "" && t.required {
		return ErrSpaceIDRequired
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if spaceID != "" {
			tx = tx.Scopes(SpaceScopeString(spaceID))
		}
		return fn(tx)
	})
}

// Unscoped returns the underlying DB without any space scoping.
// WARNING: Use this with extreme caution as it bypasses space isolation.
// This should only be used for system-level operations or migrations.
func (t *SpaceDB) Unscoped() *gorm.DB {
	return t.db
}

// SetRequired changes whether space_id is required
func (t *SpaceDB) SetRequired(required bool) *SpaceDB {
	return &SpaceDB{
		db:          t.db,
		spaceColumn: t.spaceColumn,
		required:    required,
	}
}
