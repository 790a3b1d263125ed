package models

import "github.com/google/uuid"

// Tag is immutable reference data assigned to recipes many-to-many.
// Name, color and slug are each unique across the table.
type Tag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name  string    `json:"name" db:"name" gorm:"type:varchar(200);not null;uniqueIndex:idx_tags_name"`
	Color string    `json:"color" db:"color" gorm:"type:varchar(7);not null;uniqueIndex:idx_tags_color"`
	Slug  string    `json:"slug" db:"slug" gorm:"type:varchar(200);not null;uniqueIndex:idx_tags_slug"`
}

func (Tag) TableName() string {
	return "tags"
}
