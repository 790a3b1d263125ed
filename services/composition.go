package services

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/errs"
	"github.com/platefeed/platefeed-backend/models"
)

// RecipeStore is the persistence surface the composer needs. The
// database.RecipeRepo satisfies it; tests use mocks.
type RecipeStore interface {
	FindByID(id uuid.UUID) (*models.Recipe, error)
	CreateWithIngredients(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error
	ReplaceWithIngredients(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error
	Delete(id uuid.UUID) error
}

type TagStore interface {
	FindByIDs(ids []uuid.UUID) ([]models.Tag, error)
}

type IngredientStore interface {
	FindByIDs(ids []uuid.UUID) ([]models.Ingredient, error)
}

// ImageSaver turns an inline image payload into a stored reference.
type ImageSaver interface {
	SaveDataURI(payload string) (string, error)
}

// IngredientAmount is one (ingredient, quantity) input pair.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput carries everything a create or update call replaces. On
// update an empty Image means "keep the previous image"; every other
// field is fully replaced.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	Ingredients []IngredientAmount
	TagIDs      []uuid.UUID
}

// Composer creates and replaces a recipe together with its ingredient
// list and tag set as one logical transaction.
type Composer struct {
	logger      zerolog.Logger
	recipes     RecipeStore
	tags        TagStore
	ingredients IngredientStore
	images      ImageSaver
}

func NewComposer(recipes RecipeStore, tags TagStore, ingredients IngredientStore, images ImageSaver) *Composer {
	return &Composer{
		logger:      log.With().Str("serviceName", "composer").Logger(),
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		images:      images,
	}
}

// Create validates the input, stores the image and persists the recipe
// with its ingredient rows and tag set. The author is always the
// authenticated principal, never client input.
func (c *Composer) Create(author models.User, input RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(input, true); err != nil {
		return nil, err
	}
	tags, rows, err := c.resolveComposition(input)
	if err != nil {
		return nil, err
	}

	imageURL, err := c.images.SaveDataURI(input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        input.Name,
		Text:        input.Text,
		Image:       imageURL,
		CookingTime: input.CookingTime,
	}
	if err := c.recipes.CreateWithIngredients(recipe, rows, tags); err != nil {
		return nil, errs.NewDatabaseError("create", "recipe", err)
	}

	c.logger.Info().
		Str("recipeID", recipe.ID.String()).
		Str("author", author.Username).
		Int("ingredients", len(rows)).
		Msg("recipe created")

	return c.reload(recipe.ID)
}

// Update fully replaces the recipe's scalar fields, ingredient set and
// tag set. Only the author or an admin may call it; the ownership check
// runs against the already-fetched recipe so a missing recipe is a 404
// before it can be a 403.
func (c *Composer) Update(recipeID uuid.UUID, viewer models.User, input RecipeInput) (*models.Recipe, error) {
	recipe, err := c.recipes.FindByID(recipeID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recipe", err)
	}
	if recipe == nil {
		return nil, errs.NewNotFoundError("recipe not found")
	}
	if recipe.AuthorID != viewer.ID && !viewer.IsAdmin {
		return nil, errs.NewNotAuthorError()
	}

	if err := validateRecipeInput(input, false); err != nil {
		return nil, err
	}
	tags, rows, err := c.resolveComposition(input)
	if err != nil {
		return nil, err
	}

	// No new image supplied: the previous one is retained. This is the
	// only partial-update field.
	imageURL := recipe.Image
	if input.Image != "" {
		imageURL, err = c.images.SaveDataURI(input.Image)
		if err != nil {
			return nil, err
		}
	}

	recipe.Name = input.Name
	recipe.Text = input.Text
	recipe.Image = imageURL
	recipe.CookingTime = input.CookingTime
	if err := c.recipes.ReplaceWithIngredients(recipe, rows, tags); err != nil {
		return nil, errs.NewDatabaseError("update", "recipe", err)
	}

	c.logger.Info().
		Str("recipeID", recipe.ID.String()).
		Int("ingredients", len(rows)).
		Msg("recipe replaced")

	return c.reload(recipe.ID)
}

// Delete removes a recipe after the same ownership check as Update
func (c *Composer) Delete(recipeID uuid.UUID, viewer models.User) error {
	recipe, err := c.recipes.FindByID(recipeID)
	if err != nil {
		return errs.NewDatabaseError("find", "recipe", err)
	}
	if recipe == nil {
		return errs.NewNotFoundError("recipe not found")
	}
	if recipe.AuthorID != viewer.ID && !viewer.IsAdmin {
		return errs.NewNotAuthorError()
	}
	if err := c.recipes.Delete(recipeID); err != nil {
		return errs.NewDatabaseError("delete", "recipe", err)
	}
	return nil
}

// resolveComposition loads the referenced tags and ingredients and
// builds the junction rows. A missing reference is a NotFound keyed to
// the offending field.
func (c *Composer) resolveComposition(input RecipeInput) ([]models.Tag, []models.RecipeIngredient, error) {
	tags, err := c.tags.FindByIDs(input.TagIDs)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find", "tags", err)
	}
	if len(tags) != len(input.TagIDs) {
		return nil, nil, errs.NewNotFoundError("one of the referenced tags does not exist")
	}

	ingredientIDs := make([]uuid.UUID, 0, len(input.Ingredients))
	for _, pair := range input.Ingredients {
		ingredientIDs = append(ingredientIDs, pair.IngredientID)
	}
	ingredients, err := c.ingredients.FindByIDs(ingredientIDs)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find", "ingredients", err)
	}
	if len(ingredients) != len(ingredientIDs) {
		return nil, nil, errs.NewNotFoundError("one of the referenced ingredients does not exist")
	}

	rows := make([]models.RecipeIngredient, 0, len(input.Ingredients))
	for position, pair := range input.Ingredients {
		rows = append(rows, models.RecipeIngredient{
			IngredientID: pair.IngredientID,
			Amount:       pair.Amount,
			Position:     position,
		})
	}
	return tags, rows, nil
}

func (c *Composer) reload(id uuid.UUID) (*models.Recipe, error) {
	recipe, err := c.recipes.FindByID(id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recipe", err)
	}
	if recipe == nil {
		return nil, errs.NewNotFoundError("recipe not found")
	}
	return recipe, nil
}

// validateRecipeInput enforces the write-side invariants: non-empty
// distinct ingredient and tag lists, bounded amounts and cooking time,
// and a present image on create.
func validateRecipeInput(input RecipeInput, requireImage bool) error {
	if input.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	if input.Text == "" {
		return errs.NewMissingRequiredFieldError("text")
	}
	if !models.ValidCookingTime(input.CookingTime) {
		return errs.NewOutOfRangeError("cooking_time", models.CookingTimeMin, models.CookingTimeMax)
	}
	if requireImage && input.Image == "" {
		return errs.NewMissingImageError()
	}

	if len(input.Ingredients) == 0 {
		return errs.NewEmptyListError("ingredients")
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(input.Ingredients))
	for _, pair := range input.Ingredients {
		if _, dup := seenIngredients[pair.IngredientID]; dup {
			return errs.NewDuplicateInListError("ingredients")
		}
		seenIngredients[pair.IngredientID] = struct{}{}
		if !models.ValidAmount(pair.Amount) {
			return errs.NewOutOfRangeError("amount", models.AmountMin, models.AmountMax)
		}
	}

	if len(input.TagIDs) == 0 {
		return errs.NewEmptyListError("tags")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(input.TagIDs))
	for _, id := range input.TagIDs {
		if _, dup := seenTags[id]; dup {
			return errs.NewDuplicateInListError("tags")
		}
		seenTags[id] = struct{}{}
	}
	return nil
}
