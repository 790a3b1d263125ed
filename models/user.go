package models

import "github.com/google/uuid"

// User is the account entity. Email is the login key; username is the
// public handle shown on recipes and subscriptions.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Email        string    `json:"email" db:"email" gorm:"type:varchar(254);not null;uniqueIndex:idx_users_email"`
	Username     string    `json:"username" db:"username" gorm:"type:varchar(150);not null;uniqueIndex:idx_users_username"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"type:varchar(150);not null"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"type:varchar(150);not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	IsAdmin      bool      `json:"-" db:"is_admin" gorm:"not null;default:false"`

	Recipes []Recipe `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`

	// IsSubscribed is viewer-relative and filled by the read path, never
	// stored. False for anonymous viewers.
	IsSubscribed bool `json:"is_subscribed" gorm:"-"`
}

func (User) TableName() string {
	return "users"
}

// FullName mirrors the display name used in logs and shopping-list headers.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
