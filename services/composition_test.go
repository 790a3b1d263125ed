package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/platefeed-backend/errs"
	"github.com/platefeed/platefeed-backend/models"
)

type mockRecipeStore struct {
	findByIDFunc               func(id uuid.UUID) (*models.Recipe, error)
	createWithIngredientsFunc  func(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error
	replaceWithIngredientsFunc func(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error
	deleteFunc                 func(id uuid.UUID) error
}

func (m *mockRecipeStore) FindByID(id uuid.UUID) (*models.Recipe, error) {
	return m.findByIDFunc(id)
}

func (m *mockRecipeStore) CreateWithIngredients(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error {
	return m.createWithIngredientsFunc(recipe, rows, tags)
}

func (m *mockRecipeStore) ReplaceWithIngredients(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error {
	return m.replaceWithIngredientsFunc(recipe, rows, tags)
}

func (m *mockRecipeStore) Delete(id uuid.UUID) error {
	return m.deleteFunc(id)
}

type mockTagStore struct {
	findByIDsFunc func(ids []uuid.UUID) ([]models.Tag, error)
}

func (m *mockTagStore) FindByIDs(ids []uuid.UUID) ([]models.Tag, error) {
	return m.findByIDsFunc(ids)
}

type mockIngredientStore struct {
	findByIDsFunc func(ids []uuid.UUID) ([]models.Ingredient, error)
}

func (m *mockIngredientStore) FindByIDs(ids []uuid.UUID) ([]models.Ingredient, error) {
	return m.findByIDsFunc(ids)
}

type mockImageSaver struct {
	saveDataURIFunc func(payload string) (string, error)
}

func (m *mockImageSaver) SaveDataURI(payload string) (string, error) {
	return m.saveDataURIFunc(payload)
}

func passthroughTagStore() *mockTagStore {
	return &mockTagStore{
		findByIDsFunc: func(ids []uuid.UUID) ([]models.Tag, error) {
			tags := make([]models.Tag, 0, len(ids))
			for _, id := range ids {
				tags = append(tags, models.Tag{ID: id})
			}
			return tags, nil
		},
	}
}

func passthroughIngredientStore() *mockIngredientStore {
	return &mockIngredientStore{
		findByIDsFunc: func(ids []uuid.UUID) ([]models.Ingredient, error) {
			ingredients := make([]models.Ingredient, 0, len(ids))
			for _, id := range ids {
				ingredients = append(ingredients, models.Ingredient{ID: id})
			}
			return ingredients, nil
		},
	}
}

func noopImageSaver() *mockImageSaver {
	return &mockImageSaver{
		saveDataURIFunc: func(payload string) (string, error) {
			return "recipes/images/stored.png", nil
		},
	}
}

func validInput() RecipeInput {
	return RecipeInput{
		Name:        "Borscht",
		Text:        "Simmer the beets.",
		CookingTime: 90,
		Image:       "data:image/png;base64,aGVsbG8=",
		Ingredients: []IngredientAmount{
			{IngredientID: uuid.New(), Amount: 200},
			{IngredientID: uuid.New(), Amount: 3},
		},
		TagIDs: []uuid.UUID{uuid.New()},
	}
}

func TestComposerCreatePersistsEveryIngredientPair(t *testing.T) {
	author := models.User{ID: uuid.New(), Username: "chef"}
	input := validInput()

	var persistedRows []models.RecipeIngredient
	var persistedTags []models.Tag
	created := &models.Recipe{ID: uuid.New()}

	recipes := &mockRecipeStore{
		createWithIngredientsFunc: func(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error {
			recipe.ID = created.ID
			persistedRows = rows
			persistedTags = tags
			return nil
		},
		findByIDFunc: func(id uuid.UUID) (*models.Recipe, error) {
			return created, nil
		},
	}

	composer := NewComposer(recipes, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

	recipe, err := composer.Create(author, input)
	require.NoError(t, err)
	require.NotNil(t, recipe)

	require.Len(t, persistedRows, len(input.Ingredients))
	for i, row := range persistedRows {
		assert.Equal(t, input.Ingredients[i].IngredientID, row.IngredientID)
		assert.Equal(t, input.Ingredients[i].Amount, row.Amount)
		assert.Equal(t, i, row.Position, "rows keep the input order")
	}
	require.Len(t, persistedTags, 1)
}

func TestComposerCreateRejectsDuplicateIngredients(t *testing.T) {
	id := uuid.New()
	input := validInput()
	input.Ingredients = []IngredientAmount{
		{IngredientID: id, Amount: 10},
		{IngredientID: id, Amount: 20},
	}

	persisted := false
	recipes := &mockRecipeStore{
		createWithIngredientsFunc: func(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error {
			persisted = true
			return nil
		},
	}

	composer := NewComposer(recipes, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

	_, err := composer.Create(models.User{ID: uuid.New()}, input)
	require.Error(t, err)
	assert.True(t, errs.IsDuplicateInListError(err))
	assert.False(t, persisted, "nothing should be persisted when validation fails")
}

func TestComposerCreateRejectsEmptyIngredientList(t *testing.T) {
	input := validInput()
	input.Ingredients = nil

	composer := NewComposer(&mockRecipeStore{}, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

	_, err := composer.Create(models.User{ID: uuid.New()}, input)
	require.Error(t, err)
	assert.True(t, errs.IsEmptyListError(err))
}

func TestComposerCreateRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RecipeInput)
	}{
		{"cooking time below minimum", func(in *RecipeInput) { in.CookingTime = 0 }},
		{"cooking time above maximum", func(in *RecipeInput) { in.CookingTime = models.CookingTimeMax + 1 }},
		{"amount below minimum", func(in *RecipeInput) { in.Ingredients[0].Amount = 0 }},
		{"amount above maximum", func(in *RecipeInput) { in.Ingredients[0].Amount = models.AmountMax + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			composer := NewComposer(&mockRecipeStore{}, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

			_, err := composer.Create(models.User{ID: uuid.New()}, input)
			require.Error(t, err)
			assert.True(t, errs.IsOutOfRangeError(err))
		})
	}
}

func TestComposerCreateRequiresImage(t *testing.T) {
	input := validInput()
	input.Image = ""

	composer := NewComposer(&mockRecipeStore{}, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

	_, err := composer.Create(models.User{ID: uuid.New()}, input)
	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))
}

func TestComposerCreateRejectsUnknownIngredientReference(t *testing.T) {
	input := validInput()

	ingredients := &mockIngredientStore{
		findByIDsFunc: func(ids []uuid.UUID) ([]models.Ingredient, error) {
			// One of the referenced ingredients does not exist
			return []models.Ingredient{{ID: ids[0]}}, nil
		},
	}

	composer := NewComposer(&mockRecipeStore{}, passthroughTagStore(), ingredients, noopImageSaver())

	_, err := composer.Create(models.User{ID: uuid.New()}, input)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestComposerUpdateReplacesIngredientSet(t *testing.T) {
	author := models.User{ID: uuid.New()}
	existing := &models.Recipe{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Image:    "recipes/images/old.png",
	}

	input := validInput()
	input.Image = ""
	input.Ingredients = []IngredientAmount{{IngredientID: uuid.New(), Amount: 5}}

	var replacedRows []models.RecipeIngredient
	var replacedImage string
	recipes := &mockRecipeStore{
		findByIDFunc: func(id uuid.UUID) (*models.Recipe, error) {
			return existing, nil
		},
		replaceWithIngredientsFunc: func(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error {
			replacedRows = rows
			replacedImage = recipe.Image
			return nil
		},
	}

	composer := NewComposer(recipes, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

	_, err := composer.Update(existing.ID, author, input)
	require.NoError(t, err)

	require.Len(t, replacedRows, 1)
	assert.Equal(t, input.Ingredients[0].IngredientID, replacedRows[0].IngredientID)
	assert.Equal(t, "recipes/images/old.png", replacedImage, "empty image input keeps the stored image")
}

func TestComposerUpdateRejectsNonAuthor(t *testing.T) {
	existing := &models.Recipe{ID: uuid.New(), AuthorID: uuid.New()}

	recipes := &mockRecipeStore{
		findByIDFunc: func(id uuid.UUID) (*models.Recipe, error) {
			return existing, nil
		},
	}

	composer := NewComposer(recipes, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

	_, err := composer.Update(existing.ID, models.User{ID: uuid.New()}, validInput())
	require.Error(t, err)
	assert.True(t, errs.IsForbidden(err))
}

func TestComposerUpdateAllowsAdmin(t *testing.T) {
	existing := &models.Recipe{ID: uuid.New(), AuthorID: uuid.New()}

	recipes := &mockRecipeStore{
		findByIDFunc: func(id uuid.UUID) (*models.Recipe, error) {
			return existing, nil
		},
		replaceWithIngredientsFunc: func(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error {
			return nil
		},
	}

	composer := NewComposer(recipes, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

	_, err := composer.Update(existing.ID, models.User{ID: uuid.New(), IsAdmin: true}, validInput())
	require.NoError(t, err)
}

func TestComposerUpdateMissingRecipeIsNotFoundBeforeForbidden(t *testing.T) {
	recipes := &mockRecipeStore{
		findByIDFunc: func(id uuid.UUID) (*models.Recipe, error) {
			return nil, nil
		},
	}

	composer := NewComposer(recipes, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

	_, err := composer.Update(uuid.New(), models.User{ID: uuid.New()}, validInput())
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestComposerDeleteRejectsNonAuthor(t *testing.T) {
	existing := &models.Recipe{ID: uuid.New(), AuthorID: uuid.New()}

	deleted := false
	recipes := &mockRecipeStore{
		findByIDFunc: func(id uuid.UUID) (*models.Recipe, error) {
			return existing, nil
		},
		deleteFunc: func(id uuid.UUID) error {
			deleted = true
			return nil
		},
	}

	composer := NewComposer(recipes, passthroughTagStore(), passthroughIngredientStore(), noopImageSaver())

	err := composer.Delete(existing.ID, models.User{ID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errs.IsForbidden(err))
	assert.False(t, deleted)
}
