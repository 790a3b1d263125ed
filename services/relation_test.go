package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/platefeed-backend/errs"
	"github.com/platefeed/platefeed-backend/models"
)

type mockPairStore struct {
	existsFunc func(userID, targetID uuid.UUID) (bool, error)
	addFunc    func(userID, targetID uuid.UUID) error
	removeFunc func(userID, targetID uuid.UUID) (int64, error)
}

func (m *mockPairStore) Exists(userID, targetID uuid.UUID) (bool, error) {
	return m.existsFunc(userID, targetID)
}

func (m *mockPairStore) Add(userID, targetID uuid.UUID) error {
	return m.addFunc(userID, targetID)
}

func (m *mockPairStore) Remove(userID, targetID uuid.UUID) (int64, error) {
	return m.removeFunc(userID, targetID)
}

type mockRecipeFinder struct {
	findByIDFunc func(id uuid.UUID) (*models.Recipe, error)
}

func (m *mockRecipeFinder) FindByID(id uuid.UUID) (*models.Recipe, error) {
	return m.findByIDFunc(id)
}

func recipeFinderReturning(recipe *models.Recipe) *mockRecipeFinder {
	return &mockRecipeFinder{
		findByIDFunc: func(id uuid.UUID) (*models.Recipe, error) {
			return recipe, nil
		},
	}
}

func TestRecipeRelationAddReturnsRecipe(t *testing.T) {
	recipe := &models.Recipe{ID: uuid.New(), Name: "Pancakes"}

	added := false
	pairs := &mockPairStore{
		existsFunc: func(userID, targetID uuid.UUID) (bool, error) { return false, nil },
		addFunc: func(userID, targetID uuid.UUID) error {
			added = true
			return nil
		},
	}

	relation := NewFavoriteRelation(pairs, recipeFinderReturning(recipe))

	got, err := relation.Add(uuid.New(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe, got)
	assert.True(t, added)
}

func TestRecipeRelationDoubleAddIsConflict(t *testing.T) {
	recipe := &models.Recipe{ID: uuid.New()}

	pairs := &mockPairStore{
		existsFunc: func(userID, targetID uuid.UUID) (bool, error) { return true, nil },
	}

	relation := NewShoppingCartRelation(pairs, recipeFinderReturning(recipe))

	_, err := relation.Add(uuid.New(), recipe.ID)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
}

func TestRecipeRelationAddMissingRecipeIsNotFound(t *testing.T) {
	relation := NewFavoriteRelation(&mockPairStore{}, recipeFinderReturning(nil))

	_, err := relation.Add(uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestRecipeRelationRemoveNotAddedIsNotFound(t *testing.T) {
	recipe := &models.Recipe{ID: uuid.New()}

	pairs := &mockPairStore{
		removeFunc: func(userID, targetID uuid.UUID) (int64, error) { return 0, nil },
	}

	relation := NewFavoriteRelation(pairs, recipeFinderReturning(recipe))

	err := relation.Remove(uuid.New(), recipe.ID)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestRecipeRelationRemoveDeletesPair(t *testing.T) {
	recipe := &models.Recipe{ID: uuid.New()}

	pairs := &mockPairStore{
		removeFunc: func(userID, targetID uuid.UUID) (int64, error) { return 1, nil },
	}

	relation := NewShoppingCartRelation(pairs, recipeFinderReturning(recipe))

	require.NoError(t, relation.Remove(uuid.New(), recipe.ID))
}

type mockUserFinder struct {
	findByIDFunc func(id uuid.UUID) (*models.User, error)
}

func (m *mockUserFinder) FindByID(id uuid.UUID) (*models.User, error) {
	return m.findByIDFunc(id)
}

type mockAuthorRecipeSource struct {
	findByAuthorFunc  func(authorID uuid.UUID, limit int) ([]*models.Recipe, error)
	countByAuthorFunc func(authorID uuid.UUID) (int64, error)
}

func (m *mockAuthorRecipeSource) FindByAuthor(authorID uuid.UUID, limit int) ([]*models.Recipe, error) {
	return m.findByAuthorFunc(authorID, limit)
}

func (m *mockAuthorRecipeSource) CountByAuthor(authorID uuid.UUID) (int64, error) {
	return m.countByAuthorFunc(authorID)
}

func userFinderReturning(user *models.User) *mockUserFinder {
	return &mockUserFinder{
		findByIDFunc: func(id uuid.UUID) (*models.User, error) {
			return user, nil
		},
	}
}

func authorRecipeSourceWith(recipes []*models.Recipe) *mockAuthorRecipeSource {
	return &mockAuthorRecipeSource{
		findByAuthorFunc: func(authorID uuid.UUID, limit int) ([]*models.Recipe, error) {
			if limit > 0 && limit < len(recipes) {
				return recipes[:limit], nil
			}
			return recipes, nil
		},
		countByAuthorFunc: func(authorID uuid.UUID) (int64, error) {
			return int64(len(recipes)), nil
		},
	}
}

func TestSubscribeReturnsAuthorSummary(t *testing.T) {
	author := &models.User{ID: uuid.New(), Username: "baker"}
	recipes := []*models.Recipe{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}

	pairs := &mockPairStore{
		existsFunc: func(userID, targetID uuid.UUID) (bool, error) { return false, nil },
		addFunc:    func(userID, targetID uuid.UUID) error { return nil },
	}

	svc := NewSubscriptionService(pairs, userFinderReturning(author), authorRecipeSourceWith(recipes))

	summary, err := svc.Subscribe(uuid.New(), author.ID, 2)
	require.NoError(t, err)
	assert.True(t, summary.User.IsSubscribed)
	assert.Equal(t, int64(3), summary.RecipesCount)
	assert.Len(t, summary.Recipes, 2, "recipe list truncated to recipes_limit")
}

func TestSubscribeToSelfIsRejected(t *testing.T) {
	svc := NewSubscriptionService(&mockPairStore{}, userFinderReturning(nil), authorRecipeSourceWith(nil))

	userID := uuid.New()
	_, err := svc.Subscribe(userID, userID, 0)
	require.Error(t, err)
	assert.True(t, errs.IsSelfSubscriptionError(err))
}

func TestSubscribeTwiceIsConflict(t *testing.T) {
	author := &models.User{ID: uuid.New()}

	pairs := &mockPairStore{
		existsFunc: func(userID, targetID uuid.UUID) (bool, error) { return true, nil },
	}

	svc := NewSubscriptionService(pairs, userFinderReturning(author), authorRecipeSourceWith(nil))

	_, err := svc.Subscribe(uuid.New(), author.ID, 0)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
}

func TestUnsubscribeWithoutSubscriptionIsNotFound(t *testing.T) {
	author := &models.User{ID: uuid.New()}

	pairs := &mockPairStore{
		removeFunc: func(userID, targetID uuid.UUID) (int64, error) { return 0, nil },
	}

	svc := NewSubscriptionService(pairs, userFinderReturning(author), authorRecipeSourceWith(nil))

	err := svc.Unsubscribe(uuid.New(), author.ID)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestSummariesMarkEveryAuthorSubscribed(t *testing.T) {
	authors := []*models.User{
		{ID: uuid.New(), Username: "a"},
		{ID: uuid.New(), Username: "b"},
	}

	svc := NewSubscriptionService(&mockPairStore{}, userFinderReturning(nil), authorRecipeSourceWith(nil))

	summaries, err := svc.Summaries(authors, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	for _, summary := range summaries {
		assert.True(t, summary.User.IsSubscribed)
	}
}

func TestParseRecipesLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"5", 5, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"2.5", 0, true},
		{"-1", 0, true},
	}

	for _, tt := range tests {
		t.Run("limit="+tt.raw, func(t *testing.T) {
			got, err := ParseRecipesLimit(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsInvalidFieldError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
