package api

import (
	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/models"
	"github.com/platefeed/platefeed-backend/services"
)

// recipeIngredientView flattens a junction row with its ingredient: the
// id is the ingredient's, the measurement unit comes from the
// ingredient, the amount from the junction row.
type recipeIngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// recipeView is the full recipe read shape
type recipeView struct {
	ID               uuid.UUID              `json:"id"`
	Tags             []models.Tag           `json:"tags"`
	Author           models.User            `json:"author"`
	Ingredients      []recipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

func newRecipeView(recipe *models.Recipe) recipeView {
	ingredients := make([]recipeIngredientView, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		ingredients = append(ingredients, recipeIngredientView{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return recipeView{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           recipe.Author,
		Ingredients:      ingredients,
		IsFavorited:      recipe.IsFavorited,
		IsInShoppingCart: recipe.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

func newRecipeViews(recipes []*models.Recipe) []recipeView {
	views := make([]recipeView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, newRecipeView(recipe))
	}
	return views
}

// userView is the public profile read shape
type userView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func newUserView(user *models.User) userView {
	return userView{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: user.IsSubscribed,
	}
}

func newUserViews(users []*models.User) []userView {
	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, newUserView(user))
	}
	return views
}

// recipeCompactView is the shape relation endpoints return for a recipe
type recipeCompactView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func newRecipeCompactView(recipe *models.Recipe) recipeCompactView {
	return recipeCompactView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// authorSummaryView is the subscription read shape: public profile plus
// recipe count and a capped recent-recipe list.
type authorSummaryView struct {
	ID           uuid.UUID           `json:"id"`
	Email        string              `json:"email"`
	Username     string              `json:"username"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	IsSubscribed bool                `json:"is_subscribed"`
	Recipes      []recipeCompactView `json:"recipes"`
	RecipesCount int64               `json:"recipes_count"`
}

func newAuthorSummaryView(summary *services.AuthorSummary) authorSummaryView {
	recipes := make([]recipeCompactView, 0, len(summary.Recipes))
	for _, recipe := range summary.Recipes {
		recipes = append(recipes, newRecipeCompactView(recipe))
	}
	return authorSummaryView{
		ID:           summary.User.ID,
		Email:        summary.User.Email,
		Username:     summary.User.Username,
		FirstName:    summary.User.FirstName,
		LastName:     summary.User.LastName,
		IsSubscribed: summary.User.IsSubscribed,
		Recipes:      recipes,
		RecipesCount: summary.RecipesCount,
	}
}

func newAuthorSummaryViews(summaries []*services.AuthorSummary) []authorSummaryView {
	views := make([]authorSummaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, newAuthorSummaryView(summary))
	}
	return views
}
