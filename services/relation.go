package services

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/errs"
	"github.com/platefeed/platefeed-backend/models"
)

// PairStore is the shared contract of the unique (user, target)
// relations; database's pair repos satisfy it.
type PairStore interface {
	Exists(userID, targetID uuid.UUID) (bool, error)
	Add(userID, targetID uuid.UUID) error
	Remove(userID, targetID uuid.UUID) (int64, error)
}

type RecipeFinder interface {
	FindByID(id uuid.UUID) (*models.Recipe, error)
}

// RecipeRelation implements favorite and shopping-cart semantics over a
// PairStore. Double-add is a conflict and double-remove is a not-found;
// there is no upsert.
type RecipeRelation struct {
	name    string
	logger  zerolog.Logger
	pairs   PairStore
	recipes RecipeFinder
}

func NewFavoriteRelation(pairs PairStore, recipes RecipeFinder) *RecipeRelation {
	return newRecipeRelation("favorites", pairs, recipes)
}

func NewShoppingCartRelation(pairs PairStore, recipes RecipeFinder) *RecipeRelation {
	return newRecipeRelation("shopping cart", pairs, recipes)
}

func newRecipeRelation(name string, pairs PairStore, recipes RecipeFinder) *RecipeRelation {
	return &RecipeRelation{
		name:    name,
		logger:  log.With().Str("serviceName", name+"Relation").Logger(),
		pairs:   pairs,
		recipes: recipes,
	}
}

// Add creates the (user, recipe) pair and returns the recipe for the
// compact response shape.
func (s *RecipeRelation) Add(userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipes.FindByID(recipeID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recipe", err)
	}
	if recipe == nil {
		return nil, errs.NewNotFoundError("recipe not found")
	}

	exists, err := s.pairs.Exists(userID, recipeID)
	if err != nil {
		return nil, errs.NewDatabaseError("check", s.name, err)
	}
	if exists {
		return nil, errs.NewConflictError(fmt.Sprintf("recipe already added to %s", s.name))
	}
	if err := s.pairs.Add(userID, recipeID); err != nil {
		// The unique index decided a concurrent race; report it the same
		// way as the pre-check.
		return nil, errs.NewDatabaseError("add", s.name+" entry", err)
	}
	return recipe, nil
}

// Remove deletes exactly the (user, recipe) pair
func (s *RecipeRelation) Remove(userID, recipeID uuid.UUID) error {
	recipe, err := s.recipes.FindByID(recipeID)
	if err != nil {
		return errs.NewDatabaseError("find", "recipe", err)
	}
	if recipe == nil {
		return errs.NewNotFoundError("recipe not found")
	}

	affected, err := s.pairs.Remove(userID, recipeID)
	if err != nil {
		return errs.NewDatabaseError("remove", s.name+" entry", err)
	}
	if affected == 0 {
		return errs.NewNotFoundError(fmt.Sprintf("recipe not in %s", s.name))
	}
	return nil
}

type UserFinder interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// AuthorRecipeSource supplies the recipe data shown with a subscription.
type AuthorRecipeSource interface {
	FindByAuthor(authorID uuid.UUID, limit int) ([]*models.Recipe, error)
	CountByAuthor(authorID uuid.UUID) (int64, error)
}

// AuthorSummary is the subscription read shape: the author's public
// profile, their total recipe count and a possibly-truncated recent
// recipe list.
type AuthorSummary struct {
	User         *models.User
	RecipesCount int64
	Recipes      []*models.Recipe
}

// SubscriptionService is the user-to-user relation. Same add/remove
// contract as the recipe relations plus the self-subscription rule.
type SubscriptionService struct {
	logger  zerolog.Logger
	pairs   PairStore
	users   UserFinder
	recipes AuthorRecipeSource
}

func NewSubscriptionService(pairs PairStore, users UserFinder, recipes AuthorRecipeSource) *SubscriptionService {
	return &SubscriptionService{
		logger:  log.With().Str("serviceName", "subscription").Logger(),
		pairs:   pairs,
		users:   users,
		recipes: recipes,
	}
}

// Subscribe creates the follow edge and returns the author summary with
// the recipe list truncated to recipesLimit when it is positive.
func (s *SubscriptionService) Subscribe(subscriberID, authorID uuid.UUID, recipesLimit int) (*AuthorSummary, error) {
	if subscriberID == authorID {
		return nil, errs.NewSelfSubscriptionError()
	}

	author, err := s.users.FindByID(authorID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if author == nil {
		return nil, errs.NewNotFoundError("user not found")
	}

	exists, err := s.pairs.Exists(subscriberID, authorID)
	if err != nil {
		return nil, errs.NewDatabaseError("check", "subscription", err)
	}
	if exists {
		return nil, errs.NewConflictError("subscription already exists")
	}
	if err := s.pairs.Add(subscriberID, authorID); err != nil {
		return nil, errs.NewDatabaseError("add", "subscription", err)
	}

	author.IsSubscribed = true
	return s.summary(author, recipesLimit)
}

// Unsubscribe deletes the follow edge
func (s *SubscriptionService) Unsubscribe(subscriberID, authorID uuid.UUID) error {
	author, err := s.users.FindByID(authorID)
	if err != nil {
		return errs.NewDatabaseError("find", "user", err)
	}
	if author == nil {
		return errs.NewNotFoundError("user not found")
	}

	affected, err := s.pairs.Remove(subscriberID, authorID)
	if err != nil {
		return errs.NewDatabaseError("remove", "subscription", err)
	}
	if affected == 0 {
		return errs.NewNotFoundError("subscription does not exist")
	}
	return nil
}

// Summaries builds the author summary for each followed user, used by
// the subscriptions list endpoint.
func (s *SubscriptionService) Summaries(authors []*models.User, recipesLimit int) ([]*AuthorSummary, error) {
	summaries := make([]*AuthorSummary, 0, len(authors))
	for _, author := range authors {
		author.IsSubscribed = true
		summary, err := s.summary(author, recipesLimit)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *SubscriptionService) summary(author *models.User, recipesLimit int) (*AuthorSummary, error) {
	count, err := s.recipes.CountByAuthor(author.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("count", "recipes", err)
	}
	recipes, err := s.recipes.FindByAuthor(author.ID, recipesLimit)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recipes", err)
	}
	return &AuthorSummary{User: author, RecipesCount: count, Recipes: recipes}, nil
}

// ParseRecipesLimit interprets the ?recipes_limit= query value. Empty
// means unlimited; anything that is not a non-negative integer is a
// validation error.
func ParseRecipesLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidFieldError("recipes_limit", "must be an integer")
	}
	if limit < 0 {
		return 0, errs.NewInvalidFieldError("recipes_limit", "must not be negative")
	}
	return limit, nil
}
