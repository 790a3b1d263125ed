package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *UserRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns all users ordered by username
func (r *UserRepo) FindAll() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Order("username asc").Find(&users).Error
	return users, err
}

// FindByID returns a user by id, or (nil, nil) when no such user exists
func (r *UserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a user by login email, or (nil, nil) when absent
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user
func (r *UserRepo) Add(user *models.User) error {
	return r.db.Create(user).Error
}

// UpdatePassword replaces the stored password hash for one user
func (r *UserRepo) UpdatePassword(id uuid.UUID, passwordHash string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// SubscribedAuthors returns the authors the given user follows, ordered
// by username.
func (r *UserRepo) SubscribedAuthors(subscriberID uuid.UUID) ([]*models.User, error) {
	var authors []*models.User
	err := r.db.
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("users.username asc").
		Find(&authors).Error
	return authors, err
}

// AnnotateSubscribed fills the viewer-relative IsSubscribed flag on each
// user with a single membership query. Anonymous viewers keep the false
// zero value.
func (r *UserRepo) AnnotateSubscribed(users []*models.User, viewerID uuid.UUID) error {
	if len(users) == 0 || viewerID == uuid.Nil {
		return nil
	}
	authorIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		authorIDs = append(authorIDs, u.ID)
	}

	var subscribed []uuid.UUID
	err := r.db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &subscribed).Error
	if err != nil {
		return err
	}

	subscribedSet := make(map[uuid.UUID]struct{}, len(subscribed))
	for _, id := range subscribed {
		subscribedSet[id] = struct{}{}
	}
	for _, u := range users {
		_, u.IsSubscribed = subscribedSet[u.ID]
	}
	return nil
}
