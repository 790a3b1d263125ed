package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefeed/platefeed-backend/models"
)

type IngredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db}
}

// FindAll returns ingredients ordered by name, optionally filtered by a
// case-insensitive name prefix.
func (r *IngredientRepo) FindAll(namePrefix string) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	query := r.db.Order("name asc")
	if namePrefix != "" {
		query = query.Where("name ILIKE ?", namePrefix+"%")
	}
	err := query.Find(&ingredients).Error
	return ingredients, err
}

// FindByID returns an ingredient by id, or (nil, nil) when absent
func (r *IngredientRepo) FindByID(id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.First(&ingredient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// FindByIDs returns the ingredients matching the given ids
func (r *IngredientRepo) FindByIDs(ids []uuid.UUID) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, err
}

// AddSkipDuplicates bulk-inserts ingredients, silently skipping rows
// that collide with the (name, measurement_unit) unique index. Used by
// the CSV/JSON importer so re-runs are idempotent.
func (r *IngredientRepo) AddSkipDuplicates(ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ingredients)
	return result.RowsAffected, result.Error
}
