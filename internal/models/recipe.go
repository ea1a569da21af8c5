package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Cooking time and per-ingredient amount bounds, enforced both in the
// service layer and as database checks.
const (
	MinCookingTime = 1
	MaxCookingTime = 500
	MinAmount      = 1
	MaxAmount      = 5000
)

// Tag is reference data administered out of band. Slug is the stable
// identifier used by recipe filters.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:50;not null" json:"name"`
	Color string    `gorm:"size:16;not null" json:"color"`
	Slug  string    `gorm:"size:16;uniqueIndex;not null" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Ingredient is reference data; recipes point at it through
// IngredientQuantity.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:120;uniqueIndex:idx_ingredient_name_unit;not null" json:"name"`
	MeasurementUnit string    `gorm:"size:20;uniqueIndex:idx_ingredient_name_unit;not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Recipe struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	AuthorID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"author_id"`
	Name        string          `gorm:"size:120;index;not null" json:"name"`
	ImageURL    string          `gorm:"size:255;not null" json:"image"`
	Text        string          `gorm:"type:text;not null" json:"text"`
	CookingTime int             `gorm:"not null;check:cooking_time >= 1 AND cooking_time <= 500" json:"cooking_time"`
	Embedding   pgvector.Vector `gorm:"type:vector(3)" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IngredientQuantity carries the amount of one ingredient in one recipe.
// An ingredient appears at most once per recipe.
type IngredientQuantity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `gorm:"not null;check:amount >= 1 AND amount <= 5000" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

func (IngredientQuantity) TableName() string {
	return "ingredient_quantities"
}

func (q *IngredientQuantity) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type RecipeTag struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_tag" json:"tag_id"`

	Tag Tag `gorm:"foreignKey:TagID" json:"-"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

func (rt *RecipeTag) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	return nil
}
