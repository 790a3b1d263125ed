package models

import "github.com/google/uuid"

// Favorite and ShoppingCart share one shape: a unique (user, recipe)
// pair, deleted when either side is deleted. They are kept as distinct
// tables because they are semantically distinct bookmarks.

type Favorite struct {
	ID       uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID   uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_recipe"`
	RecipeID uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_recipe"`

	User   User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type ShoppingCart struct {
	ID       uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID   uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_shopping_carts_user_recipe"`
	RecipeID uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_shopping_carts_user_recipe"`

	User   User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Subscription is a follow edge from subscriber to author. The
// subscriber != author invariant is enforced by the relation service,
// not by a database constraint.
type Subscription struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	SubscriberID uuid.UUID `json:"subscriber_id" db:"subscriber_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair"`
	AuthorID     uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair"`

	Subscriber User `json:"-" gorm:"foreignKey:SubscriberID;references:ID;constraint:OnDelete:CASCADE"`
	Author     User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
