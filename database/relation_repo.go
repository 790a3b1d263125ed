package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/models"
)

// pairRepo is the shared implementation behind the three unique
// (user, target) relations. The column names differ per table, the
// contract does not.
type pairRepo[T any] struct {
	db        *gorm.DB
	userCol   string
	targetCol string
	newRow    func(userID, targetID uuid.UUID) T
}

// Exists reports whether the (user, target) pair is present
func (r *pairRepo[T]) Exists(userID, targetID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(new(T)).
		Where(r.userCol+" = ? AND "+r.targetCol+" = ?", userID, targetID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts the pair. The unique index rejects the loser of a
// concurrent duplicate add.
func (r *pairRepo[T]) Add(userID, targetID uuid.UUID) error {
	row := r.newRow(userID, targetID)
	return r.db.Create(&row).Error
}

// Remove deletes the pair and reports how many rows went away
func (r *pairRepo[T]) Remove(userID, targetID uuid.UUID) (int64, error) {
	result := r.db.
		Where(r.userCol+" = ? AND "+r.targetCol+" = ?", userID, targetID).
		Delete(new(T))
	return result.RowsAffected, result.Error
}

type FavoriteRepo struct {
	pairRepo[models.Favorite]
}

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{pairRepo[models.Favorite]{
		db:        db,
		userCol:   "user_id",
		targetCol: "recipe_id",
		newRow: func(userID, recipeID uuid.UUID) models.Favorite {
			return models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}}
}

type ShoppingCartRepo struct {
	pairRepo[models.ShoppingCart]
}

func NewShoppingCartRepo(db *gorm.DB) *ShoppingCartRepo {
	return &ShoppingCartRepo{pairRepo[models.ShoppingCart]{
		db:        db,
		userCol:   "user_id",
		targetCol: "recipe_id",
		newRow: func(userID, recipeID uuid.UUID) models.ShoppingCart {
			return models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
	}}
}

// CartIngredientRow is one unsummed (ingredient, amount) occurrence
// across the recipes in a user's cart.
type CartIngredientRow struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// IngredientRows returns every ingredient occurrence across the recipes
// in the user's cart. Summing per (name, unit) is the aggregation
// service's job; the repo just produces the flat join.
func (r *ShoppingCartRepo) IngredientRows(userID uuid.UUID) ([]CartIngredientRow, error) {
	var rows []CartIngredientRow
	err := r.db.
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}

type SubscriptionRepo struct {
	pairRepo[models.Subscription]
}

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo {
	return &SubscriptionRepo{pairRepo[models.Subscription]{
		db:        db,
		userCol:   "subscriber_id",
		targetCol: "author_id",
		newRow: func(subscriberID, authorID uuid.UUID) models.Subscription {
			return models.Subscription{SubscriberID: subscriberID, AuthorID: authorID}
		},
	}}
}
