package billing

import (
	"time"

	"github.com/google/uuid"
)

// Plan represents a subscription tier for a space
type Plan string

const (
	PlanFree    Plan = "free"
	PlanFamily  Plan = "family"
	PlanPremium Plan = "premium"
)

// IsValid returns true if the plan is a known tier
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanFamily, PlanPremium:
		return true
	}
	return false
}

// FeatureKey represents a unique identifier for a gated feature
type FeatureKey string

// Feature keys gated by subscription plan
const (
	FeatureMaxMembers         FeatureKey = "max_members"          // Members per space
	FeatureMaxChores          FeatureKey = "max_chores"           // Active chores per space
	FeatureMaxSpaces          FeatureKey = "max_spaces"           // Spaces a user can own
	FeatureAssistant          FeatureKey = "assistant"            // AI companion access
	FeatureAssistantMessages  FeatureKey = "assistant_messages"   // AI messages per month
	FeatureReceiptStorage     FeatureKey = "receipt_storage"      // Receipt photo uploads
	FeatureMealPlanning       FeatureKey = "meal_planning"        // Weekly meal plans
	FeatureAdvancedAnalytics  FeatureKey = "advanced_analytics"   // Retention and trends
	FeatureMessageHistoryDays FeatureKey = "message_history_days" // Days of message history kept
)

// PlanFeature maps a plan to a feature and its limit
type PlanFeature struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	PlanID      Plan       `gorm:"type:varchar(20);not null;uniqueIndex:idx_plan_feature"` // The subscription plan
	FeatureKey  FeatureKey `gorm:"type:varchar(50);not null;uniqueIndex:idx_plan_feature"` // Unique identifier for the feature
	Enabled     bool       `gorm:"not null;default:false"`                                 // Whether the feature is enabled for this plan
	Limit       *int       `gorm:"column:feature_limit"`                                   // Optional limit for the feature (nil = unlimited)
	Description string     `gorm:"type:varchar(500)"`                                      // Human-readable description of the feature
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PlanFeature) TableName() string {
	return "plan_features"
}

// NewPlanFeature creates a new PlanFeature
func NewPlanFeature(planID Plan, featureKey FeatureKey, enabled bool, description string) *PlanFeature {
	now := time.Now()
	return &PlanFeature{
		ID:          uuid.New(),
		PlanID:      planID,
		FeatureKey:  featureKey,
		Enabled:     enabled,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewPlanFeatureWithLimit creates a new PlanFeature with a limit
func NewPlanFeatureWithLimit(planID Plan, featureKey FeatureKey, enabled bool, limit int, description string) *PlanFeature {
	pf := NewPlanFeature(planID, featureKey, enabled, description)
	pf.Limit = &limit
	return pf
}

// SetLimit sets the limit for this feature
func (pf *PlanFeature) SetLimit(limit int) {
	pf.Limit = &limit
	pf.UpdatedAt = time.Now()
}

// ClearLimit removes the limit (makes it unlimited)
func (pf *PlanFeature) ClearLimit() {
	pf.Limit = nil
	pf.UpdatedAt = time.Now()
}

// Enable enables this feature
func (pf *PlanFeature) Enable() {
	pf.Enabled = true
	pf.UpdatedAt = time.Now()
}

// Disable disables this feature
func (pf *PlanFeature) Disable() {
	pf.Enabled = false
	pf.UpdatedAt = time.Now()
}

// IsUnlimited returns true if the feature has no limit
func (pf *PlanFeature) IsUnlimited() bool {
	return pf.Limit == nil
}

// GetLimit returns the limit value, or -1 if unlimited
func (pf *PlanFeature) GetLimit() int {
	if pf.Limit == nil {
		return -1
	}
	return *pf.Limit
}

// DefaultPlanFeatures returns the default feature set for a plan
func DefaultPlanFeatures(plan Plan) []PlanFeature {
	switch plan {
	case PlanFamily:
		return []PlanFeature{
			*NewPlanFeatureWithLimit(plan, FeatureMaxMembers, true, 10, "Up to 10 household members"),
			*NewPlanFeatureWithLimit(plan, FeatureMaxChores, true, 100, "Up to 100 active chores"),
			*NewPlanFeatureWithLimit(plan, FeatureMaxSpaces, true, 3, "Own up to 3 spaces"),
			*NewPlanFeatureWithLimit(plan, FeatureAssistant, true, 0, "AI companion"),
			*NewPlanFeatureWithLimit(plan, FeatureAssistantMessages, true, 200, "200 AI messages per month"),
			*NewPlanFeature(plan, FeatureReceiptStorage, true, "Receipt photo uploads"),
			*NewPlanFeature(plan, FeatureMealPlanning, true, "Weekly meal planning"),
			*NewPlanFeature(plan, FeatureAdvancedAnalytics, false, "Retention and trend reports"),
			*NewPlanFeatureWithLimit(plan, FeatureMessageHistoryDays, true, 90, "90 days of message history"),
		}
	case PlanPremium:
		return []PlanFeature{
			*NewPlanFeature(plan, FeatureMaxMembers, true, "Unlimited household members"),
			*NewPlanFeature(plan, FeatureMaxChores, true, "Unlimited chores"),
			*NewPlanFeature(plan, FeatureMaxSpaces, true, "Unlimited spaces"),
			*NewPlanFeature(plan, FeatureAssistant, true, "AI companion"),
			*NewPlanFeature(plan, FeatureAssistantMessages, true, "Unlimited AI messages"),
			*NewPlanFeature(plan, FeatureReceiptStorage, true, "Receipt photo uploads"),
			*NewPlanFeature(plan, FeatureMealPlanning, true, "Weekly meal planning"),
			*NewPlanFeature(plan, FeatureAdvancedAnalytics, true, "Retention and trend reports"),
			*NewPlanFeature(plan, FeatureMessageHistoryDays, true, "Full message history"),
		}
	default: // free
		return []PlanFeature{
			*NewPlanFeatureWithLimit(PlanFree, FeatureMaxMembers, true, 5, "Up to 5 household members"),
			*NewPlanFeatureWithLimit(PlanFree, FeatureMaxChores, true, 20, "Up to 20 active chores"),
			*NewPlanFeatureWithLimit(PlanFree, FeatureMaxSpaces, true, 1, "Own 1 space"),
			*NewPlanFeature(PlanFree, FeatureAssistant, false, "AI companion"),
			*NewPlanFeatureWithLimit(PlanFree, FeatureAssistantMessages, false, 0, "No AI messages"),
			*NewPlanFeature(PlanFree, FeatureReceiptStorage, false, "Receipt photo uploads"),
			*NewPlanFeature(PlanFree, FeatureMealPlanning, true, "Weekly meal planning"),
			*NewPlanFeature(PlanFree, FeatureAdvancedAnalytics, false, "Retention and trend reports"),
			*NewPlanFeatureWithLimit(PlanFree, FeatureMessageHistoryDays, true, 30, "30 days of message history"),
		}
	}
}

// PlanHasFeature checks whether a plan enables a feature, based on the
// default definitions
func PlanHasFeature(plan Plan, featureKey FeatureKey) bool {
	for _, f := range DefaultPlanFeatures(plan) {
		if f.FeatureKey == featureKey {
			return f.Enabled
		}
	}
	return false
}

// GetPlanFeatureLimit returns the limit for a feature in a plan, nil when
// unlimited or unknown
func GetPlanFeatureLimit(plan Plan, featureKey FeatureKey) *int {
	for _, f := range DefaultPlanFeatures(plan) {
		if f.FeatureKey == featureKey {
			return f.Limit
		}
	}
	return nil
}

// AllFeatureKeys lists every known feature key
func AllFeatureKeys() []FeatureKey {
	return []FeatureKey{
		FeatureMaxMembers,
		FeatureMaxChores,
		FeatureMaxSpaces,
		FeatureAssistant,
		FeatureAssistantMessages,
		FeatureReceiptStorage,
		FeatureMealPlanning,
		FeatureAdvancedAnalytics,
		FeatureMessageHistoryDays,
	}
}

// IsValidFeatureKey reports whether the key is a known feature key
func IsValidFeatureKey(key FeatureKey) bool {
	for _, k := range AllFeatureKeys() {
		if k == key {
			return true
		}
	}
	return false
}
