package database

import (
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/models"
)

type Database struct {
	userRepo         *UserRepo
	tagRepo          *TagRepo
	ingredientRepo   *IngredientRepo
	recipeRepo       *RecipeRepo
	favoriteRepo     *FavoriteRepo
	shoppingCartRepo *ShoppingCartRepo
	subscriptionRepo *SubscriptionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:         NewUserRepo(db),
		tagRepo:          NewTagRepo(db),
		ingredientRepo:   NewIngredientRepo(db),
		recipeRepo:       NewRecipeRepo(db),
		favoriteRepo:     NewFavoriteRepo(db),
		shoppingCartRepo: NewShoppingCartRepo(db),
		subscriptionRepo: NewSubscriptionRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) IngredientRepo() *IngredientRepo {
	return d.ingredientRepo
}

func (d Database) RecipeRepo() *RecipeRepo {
	return d.recipeRepo
}

func (d Database) FavoriteRepo() *FavoriteRepo {
	return d.favoriteRepo
}

func (d Database) ShoppingCartRepo() *ShoppingCartRepo {
	return d.shoppingCartRepo
}

func (d Database) SubscriptionRepo() *SubscriptionRepo {
	return d.subscriptionRepo
}

// Migrate creates or updates the full relational schema. Junction
// uniqueness lives in the schema so concurrent duplicate adds lose with
// a constraint violation instead of both succeeding.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Subscription{},
	)
}
