package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public, optionally-authenticated and
// authenticated route groups
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/users", handlers.userHandler.signup())
		r.Post("/auth/token/login", handlers.userHandler.login())

		r.Get("/tags", handlers.tagHandler.getAllTags())
		r.Get("/tags/{tagID}", handlers.tagHandler.getTag())

		r.Get("/ingredients", handlers.ingredientHandler.getAllIngredients())
		r.Get("/ingredients/{ingredientID}", handlers.ingredientHandler.getIngredient())
	})

	// Read routes where an attached token personalizes the response
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.maybeAuthenticate)

		r.Get("/recipes", handlers.recipeHandler.getAllRecipes())
		r.Get("/recipes/{recipeID}", handlers.recipeHandler.getRecipe())

		r.Get("/users", handlers.userHandler.getAllUsers())
		r.Get("/users/{userID}", handlers.userHandler.getUser())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.authenticate)

		r.Post("/auth/token/logout", handlers.userHandler.logout())
		r.Post("/users/set_password", handlers.userHandler.setPassword())
		r.Get("/users/subscriptions", handlers.userHandler.getSubscriptions())

		r.Post("/recipes", handlers.recipeHandler.createRecipe())
		r.Patch("/recipes/{recipeID}", handlers.recipeHandler.updateRecipe())
		r.Delete("/recipes/{recipeID}", handlers.recipeHandler.deleteRecipe())
		r.Get("/recipes/download_shopping_cart", handlers.recipeHandler.downloadShoppingCart())

		r.Post("/recipes/{recipeID}/favorite", handlers.relationHandler.addFavorite())
		r.Delete("/recipes/{recipeID}/favorite", handlers.relationHandler.removeFavorite())
		r.Post("/recipes/{recipeID}/shopping_cart", handlers.relationHandler.addToShoppingCart())
		r.Delete("/recipes/{recipeID}/shopping_cart", handlers.relationHandler.removeFromShoppingCart())

		r.Post("/users/{userID}/subscribe", handlers.relationHandler.subscribe())
		r.Delete("/users/{userID}/subscribe", handlers.relationHandler.unsubscribe())
	})
}
