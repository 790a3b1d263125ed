package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/models"
)

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *RecipeRepo) GetDB() *gorm.DB {
	return r.db
}

// orderIngredientRows keeps preloaded ingredient rows in the order the
// author listed them
func orderIngredientRows(db *gorm.DB) *gorm.DB {
	return db.Order("recipe_ingredients.position asc")
}

// RecipeFilter narrows the recipe list endpoint. FavoritedBy/InCartOf
// are viewer-scoped set filters; zero values mean "no filter".
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    uuid.UUID
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
	Limit       int
	Offset      int
}

// FindAll returns recipes newest-first with tags, author and ingredient
// rows preloaded, narrowed by the given filter.
func (r *RecipeRepo) FindAll(filter RecipeFilter) ([]*models.Recipe, error) {
	query := r.db.
		Preload("Tags").
		Preload("Author").
		Preload("Ingredients", orderIngredientRows).
		Preload("Ingredients.Ingredient").
		Order("recipes.pub_date desc")

	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if filter.AuthorID != uuid.Nil {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != uuid.Nil {
		query = query.Where(
			"recipes.id IN (?)",
			r.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", filter.FavoritedBy),
		)
	}
	if filter.InCartOf != uuid.Nil {
		query = query.Where(
			"recipes.id IN (?)",
			r.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", filter.InCartOf),
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []*models.Recipe
	err := query.Find(&recipes).Error
	return recipes, err
}

// FindByID returns a recipe with its full composition, or (nil, nil)
// when no such recipe exists.
func (r *RecipeRepo) FindByID(id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.
		Preload("Tags").
		Preload("Author").
		Preload("Ingredients", orderIngredientRows).
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindByAuthor returns an author's recipes newest-first, truncated to
// limit when limit > 0. Used for the subscription read path.
func (r *RecipeRepo) FindByAuthor(authorID uuid.UUID, limit int) ([]*models.Recipe, error) {
	query := r.db.
		Where("author_id = ?", authorID).
		Order("pub_date desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []*models.Recipe
	err := query.Find(&recipes).Error
	return recipes, err
}

// CountByAuthor returns the author's total recipe count
func (r *RecipeRepo) CountByAuthor(authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// CreateWithIngredients persists the recipe row, bulk-inserts its
// ingredient rows and sets the tag association inside one transaction.
// A failure partway through leaves no partial recipe.
func (r *RecipeRepo) CreateWithIngredients(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients", "Author").Create(recipe).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

// ReplaceWithIngredients updates the recipe's scalar fields and fully
// replaces its ingredient rows and tag set inside one transaction.
// Delete-all-then-reinsert is deliberate: the observable result is that
// the final set exactly equals the input.
func (r *RecipeRepo) ReplaceWithIngredients(recipe *models.Recipe, rows []models.RecipeIngredient, tags []models.Tag) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(recipe).
			Select("name", "text", "image", "cooking_time").
			Updates(map[string]any{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"image":        recipe.Image,
				"cooking_time": recipe.CookingTime,
			}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

// Delete removes a recipe; ingredient rows, tag links and favorite/cart
// entries go with it via the schema's cascades.
func (r *RecipeRepo) Delete(id uuid.UUID) error {
	return r.db.Select("Ingredients", "Tags").Delete(&models.Recipe{ID: id}).Error
}

// AnnotateViewerFlags fills IsFavorited and IsInShoppingCart on each
// recipe with two membership queries total, regardless of list length.
// Anonymous viewers keep the false zero values.
func (r *RecipeRepo) AnnotateViewerFlags(recipes []*models.Recipe, viewerID uuid.UUID) error {
	if len(recipes) == 0 || viewerID == uuid.Nil {
		return nil
	}
	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
	}

	var favorited []uuid.UUID
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &favorited).Error
	if err != nil {
		return err
	}

	var inCart []uuid.UUID
	err = r.db.Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &inCart).Error
	if err != nil {
		return err
	}

	favoritedSet := make(map[uuid.UUID]struct{}, len(favorited))
	for _, id := range favorited {
		favoritedSet[id] = struct{}{}
	}
	inCartSet := make(map[uuid.UUID]struct{}, len(inCart))
	for _, id := range inCart {
		inCartSet[id] = struct{}{}
	}

	for _, recipe := range recipes {
		_, recipe.IsFavorited = favoritedSet[recipe.ID]
		_, recipe.IsInShoppingCart = inCartSet[recipe.ID]
	}
	return nil
}
