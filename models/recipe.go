package models

import (
	"time"

	"github.com/google/uuid"
)

// Bounds shared by recipe cooking time and ingredient amounts.
const (
	CookingTimeMin = 1
	CookingTimeMax = 32767
	AmountMin      = 1
	AmountMax      = 32767
)

// Recipe is the central entity: owned by one author, tagged many-to-many,
// with a quantified ingredient list kept in recipe_ingredients rows.
type Recipe struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	AuthorID    uuid.UUID `json:"-" db:"author_id" gorm:"type:uuid;not null;index:idx_recipes_author_id"`
	Name        string    `json:"name" db:"name" gorm:"type:varchar(200);not null"`
	Text        string    `json:"text" db:"text" gorm:"type:text;not null"`
	Image       string    `json:"image" db:"image" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" db:"cooking_time" gorm:"type:smallint;not null"`
	PubDate     time.Time `json:"-" db:"pub_date" gorm:"not null;autoCreateTime;index:idx_recipes_pub_date,sort:desc"`

	Author      User               `json:"author" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"tags" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`

	// Viewer-relative flags, filled in bulk by the read path and never
	// persisted. Both stay false for anonymous viewers.
	IsFavorited      bool `json:"is_favorited" gorm:"-"`
	IsInShoppingCart bool `json:"is_in_shopping_cart" gorm:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient links a recipe to one ingredient with a quantity.
// A recipe cannot list the same ingredient twice. Position preserves the
// order the author listed the ingredients in.
type RecipeIngredient struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	RecipeID     uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uuid.UUID `json:"ingredient_id" db:"ingredient_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int       `json:"amount" db:"amount" gorm:"type:smallint;not null"`
	Position     int       `json:"-" db:"position" gorm:"type:smallint;not null;default:0"`

	Recipe     Recipe     `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
	Ingredient Ingredient `json:"-" gorm:"foreignKey:IngredientID;references:ID;constraint:OnDelete:CASCADE"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
