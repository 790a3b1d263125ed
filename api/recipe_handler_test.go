package api

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/platefeed-backend/models"
)

func TestRecipeFilterFromQuery(t *testing.T) {
	viewer := &models.User{ID: uuid.New()}
	authorID := uuid.New()

	r := httptest.NewRequest("GET",
		"/recipes?tags=breakfast&tags=vegan&author="+authorID.String()+
			"&is_favorited=1&is_in_shopping_cart=true&limit=10&offset=20", nil)
	r = r.WithContext(ctxWithPrincipal(r.Context(), viewer))

	filter, err := recipeFilterFromQuery(r)
	require.NoError(t, err)

	assert.Equal(t, []string{"breakfast", "vegan"}, filter.TagSlugs)
	assert.Equal(t, authorID, filter.AuthorID)
	assert.Equal(t, viewer.ID, filter.FavoritedBy)
	assert.Equal(t, viewer.ID, filter.InCartOf)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 20, filter.Offset)
}

func TestRecipeFilterIgnoresViewerFlagsWhenAnonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/recipes?is_favorited=1&is_in_shopping_cart=1", nil)

	filter, err := recipeFilterFromQuery(r)
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, filter.FavoritedBy)
	assert.Equal(t, uuid.Nil, filter.InCartOf)
}

func TestRecipeFilterRejectsBadParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"author not a uuid", "?author=42"},
		{"limit not a number", "?limit=abc"},
		{"negative limit", "?limit=-1"},
		{"offset not a number", "?offset=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/recipes"+tt.query, nil)

			_, err := recipeFilterFromQuery(r)
			require.Error(t, err)
		})
	}
}

func TestRecipeAuthorsAliasEmbeddedAuthors(t *testing.T) {
	followed := uuid.New()
	recipes := []*models.Recipe{
		{ID: uuid.New(), Author: models.User{ID: followed}},
		{ID: uuid.New(), Author: models.User{ID: uuid.New()}},
		{ID: uuid.New(), Author: models.User{ID: followed}},
	}

	// Flag the followed author the way AnnotateSubscribed does
	for _, author := range recipeAuthors(recipes) {
		author.IsSubscribed = author.ID == followed
	}

	views := newRecipeViews(recipes)
	require.Len(t, views, 3)
	assert.True(t, views[0].Author.IsSubscribed, "recipe payload carries the author's subscription state")
	assert.False(t, views[1].Author.IsSubscribed)
	assert.True(t, views[2].Author.IsSubscribed, "every recipe by a followed author is flagged")
}

func TestRecipeViewFlattensIngredients(t *testing.T) {
	ingredientID := uuid.New()
	recipe := &models.Recipe{
		ID:   uuid.New(),
		Name: "Omelette",
		Ingredients: []models.RecipeIngredient{
			{
				IngredientID: ingredientID,
				Amount:       3,
				Ingredient:   models.Ingredient{ID: ingredientID, Name: "egg", MeasurementUnit: "pcs"},
			},
		},
		IsFavorited: true,
	}

	view := newRecipeView(recipe)

	require.Len(t, view.Ingredients, 1)
	assert.Equal(t, ingredientID, view.Ingredients[0].ID)
	assert.Equal(t, "egg", view.Ingredients[0].Name)
	assert.Equal(t, "pcs", view.Ingredients[0].MeasurementUnit)
	assert.Equal(t, 3, view.Ingredients[0].Amount)
	assert.True(t, view.IsFavorited)
	assert.NotNil(t, view.Tags, "tags render as an empty array, not null")
}
