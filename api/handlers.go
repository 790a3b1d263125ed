package api

import (
	"github.com/platefeed/platefeed-backend/database"
	"github.com/platefeed/platefeed-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, svc serviceSet) *routeHandlers {
	return &routeHandlers{
		userHandler:       newUserHandler(database.UserRepo(), svc.auth, svc.subscriptions),
		tagHandler:        newTagHandler(database.TagRepo()),
		ingredientHandler: newIngredientHandler(database.IngredientRepo()),
		recipeHandler:     newRecipeHandler(database.RecipeRepo(), database.UserRepo(), svc.composer, svc.shoppingList),
		relationHandler:   newRelationHandler(svc.favorites, svc.shoppingCart, svc.subscriptions),
	}
}

// serviceSet bundles the services the handlers depend on
type serviceSet struct {
	auth          *services.AuthService
	composer      *services.Composer
	favorites     *services.RecipeRelation
	shoppingCart  *services.RecipeRelation
	subscriptions *services.SubscriptionService
	shoppingList  *services.ShoppingListService
}
