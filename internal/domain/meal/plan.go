package meal

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// Slot is a meal slot within a day
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
)

// PlanEntry assigns a recipe to a weekday and slot. Weekday follows ISO:
// 1 = Monday .. 7 = Sunday.
type PlanEntry struct {
	Weekday  int       `json:"weekday"`
	Slot     Slot      `json:"slot"`
	RecipeID uuid.UUID `json:"recipe_id"`
	Note     string    `json:"note,omitempty"`
}

// MealPlan is the menu for one ISO week in a space. At most one plan
// exists per space and week.
type MealPlan struct {
	shared.SpaceAggregateRoot
	Year    int         `gorm:"not null;index:idx_meal_plan_week"`
	Week    int         `gorm:"not null;index:idx_meal_plan_week"`
	Entries []PlanEntry `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (MealPlan) TableName() string {
	return "meal_plans"
}

// NewMealPlan creates an empty plan for an ISO week
func NewMealPlan(spaceID uuid.UUID, year, week int) (*MealPlan, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if week < 1 || week > 53 {
		return nil, shared.NewDomainError("INVALID_WEEK", "Week must be between 1 and 53")
	}
	if year < 2000 || year > 2200 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Year out of range")
	}

	return &MealPlan{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Year:               year,
		Week:               week,
	}, nil
}

// NewMealPlanFor creates an empty plan for the ISO week containing t
func NewMealPlanFor(spaceID uuid.UUID, t time.Time) (*MealPlan, error) {
	year, week := t.ISOWeek()
	return NewMealPlan(spaceID, year, week)
}

// SetEntry assigns a recipe to a weekday and slot, replacing any
// existing assignment
func (p *MealPlan) SetEntry(weekday int, slot Slot, recipeID uuid.UUID, note string) error {
	if weekday < 1 || weekday > 7 {
		return shared.NewDomainError("INVALID_WEEKDAY", "Weekday must be between 1 and 7")
	}
	if err := validateSlot(slot); err != nil {
		return err
	}
	if recipeID == uuid.Nil {
		return shared.NewDomainError("INVALID_RECIPE_ID", "Recipe ID cannot be empty")
	}
	if len(note) > 200 {
		return shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 200 characters")
	}

	entry := PlanEntry{Weekday: weekday, Slot: slot, RecipeID: recipeID, Note: note}
	for i, e := range p.Entries {
		if e.Weekday == weekday && e.Slot == slot {
			p.Entries[i] = entry
			p.touch()
			return nil
		}
	}

	p.Entries = append(p.Entries, entry)
	sort.Slice(p.Entries, func(i, j int) bool {
		if p.Entries[i].Weekday != p.Entries[j].Weekday {
			return p.Entries[i].Weekday < p.Entries[j].Weekday
		}
		return slotOrder(p.Entries[i].Slot) < slotOrder(p.Entries[j].Slot)
	})
	p.touch()

	return nil
}

// ClearEntry removes the assignment for a weekday and slot
func (p *MealPlan) ClearEntry(weekday int, slot Slot) error {
	for i, e := range p.Entries {
		if e.Weekday == weekday && e.Slot == slot {
			p.Entries = append(p.Entries[:i], p.Entries[i+1:]...)
			p.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RecipeIDs returns the distinct recipes used in the plan
func (p *MealPlan) RecipeIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(p.Entries))
	for _, e := range p.Entries {
		if !seen[e.RecipeID] {
			seen[e.RecipeID] = true
			ids = append(ids, e.RecipeID)
		}
	}
	return ids
}

func (p *MealPlan) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateSlot(slot Slot) error {
	switch slot {
	case SlotBreakfast, SlotLunch, SlotDinner:
		return nil
	default:
		return shared.NewDomainError("INVALID_SLOT", "Invalid meal slot")
	}
}

func slotOrder(s Slot) int {
	switch s {
	case SlotBreakfast:
		return 0
	case SlotLunch:
		return 1
	default:
		return 2
	}
}

// ShoppingItem is one aggregated line on a shopping list
type ShoppingItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// BuildShoppingList merges ingredient lists of the plan's recipes into a
// single list. Lines with the same name and unit are summed; quantities
// in different units stay separate rather than guessing conversions.
func BuildShoppingList(recipes []*Recipe) []ShoppingItem {
	type key struct {
		name string
		unit string
	}
	totals := make(map[key]float64)
	order := make([]key, 0)

	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			k := key{name: strings.ToLower(strings.TrimSpace(ing.Name)), unit: ing.Unit}
			if _, seen := totals[k]; !seen {
				order = append(order, k)
			}
			totals[k] += ing.Quantity
		}
	}

	items := make([]ShoppingItem, 0, len(order))
	for _, k := range order {
		items = append(items, ShoppingItem{Name: k.name, Quantity: totals[k], Unit: k.unit})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return items
}
