package meal

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// Ingredient is one line of a recipe's ingredient list
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"` // "g", "ml", "pcs", free-form
}

// Recipe is a dish the household cooks. Ingredients are stored as a JSON
// column; they are only ever read as a whole.
type Recipe struct {
	shared.SpaceAggregateRoot
	Name         string       `gorm:"type:varchar(200);not null"`
	Instructions string       `gorm:"type:text"`
	Servings     int          `gorm:"not null;default:2"`
	PrepMinutes  int          `gorm:"not null;default:0"`
	Tags         string       `gorm:"type:varchar(500)"` // Comma-separated
	Ingredients  []Ingredient `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// NewRecipe creates a recipe in a space
func NewRecipe(spaceID uuid.UUID, name string, servings int) (*Recipe, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Recipe name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Recipe name cannot exceed 200 characters")
	}
	if servings <= 0 {
		servings = 2
	}

	return &Recipe{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Name:               name,
		Servings:           servings,
	}, nil
}

// Update updates the recipe's fields
func (r *Recipe) Update(name, instructions string, servings, prepMinutes int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Recipe name cannot be empty")
	}
	if servings <= 0 {
		return shared.NewDomainError("INVALID_SERVINGS", "Servings must be positive")
	}
	if prepMinutes < 0 {
		return shared.NewDomainError("INVALID_PREP_TIME", "Prep time cannot be negative")
	}

	r.Name = name
	r.Instructions = instructions
	r.Servings = servings
	r.PrepMinutes = prepMinutes
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetIngredients replaces the ingredient list
func (r *Recipe) SetIngredients(ingredients []Ingredient) error {
	for _, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient name cannot be empty")
		}
		if ing.Quantity < 0 {
			return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient quantity cannot be negative")
		}
	}

	r.Ingredients = ingredients
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetTags replaces the recipe tags
func (r *Recipe) SetTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(strings.ToLower(tag)); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	r.Tags = strings.Join(cleaned, ",")
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// TagList returns the tags as a slice
func (r *Recipe) TagList() []string {
	if r.Tags == "" {
		return nil
	}
	return strings.Split(r.Tags, ",")
}
