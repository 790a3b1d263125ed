package models

import "github.com/google/uuid"

// Ingredient is reference data. The (name, measurement unit) pair is
// unique; the same name may exist with a different unit.
type Ingredient struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name            string    `json:"name" db:"name" gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredients_name_unit"`
	MeasurementUnit string    `json:"measurement_unit" db:"measurement_unit" gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredients_name_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
