package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefeed/platefeed-backend/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags ordered by name
func (r *TagRepo) FindAll() ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.Order("name asc").Find(&tags).Error
	return tags, err
}

// FindByID returns a tag by id, or (nil, nil) when no such tag exists
func (r *TagRepo) FindByID(id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByIDs returns the tags matching the given ids. Callers compare
// lengths to detect references to tags that do not exist.
func (r *TagRepo) FindByIDs(ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

// AddSkipDuplicates bulk-inserts tags, silently skipping rows that
// collide with an existing name, color or slug. Used by the tag seeder
// so re-runs are idempotent.
func (r *TagRepo) AddSkipDuplicates(tags []models.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
	return result.RowsAffected, result.Error
}
