package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/database"
	"github.com/platefeed/platefeed-backend/errs"
)

type ingredientHandler struct {
	responder      Responder
	logger         zerolog.Logger
	ingredientRepo *database.IngredientRepo
}

func newIngredientHandler(ingredientRepo *database.IngredientRepo) ingredientHandler {
	logger := log.With().Str("handlerName", "ingredientHandler").Logger()

	return ingredientHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		ingredientRepo: ingredientRepo,
	}
}

// getAllIngredients returns ingredients, optionally narrowed by a
// case-insensitive ?name= prefix
func (h ingredientHandler) getAllIngredients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredients, err := h.ingredientRepo.FindAll(r.URL.Query().Get("name"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find ingredients", "ingredients", err))
			return
		}
		h.responder.WriteJSON(w, ingredients)
	}
}

// getIngredient returns one ingredient by id
func (h ingredientHandler) getIngredient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid ingredientID"))
			return
		}

		ingredient, err := h.ingredientRepo.FindByID(ingredientID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find ingredient", "ingredient", err))
			return
		}
		if ingredient == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("ingredient not found"))
			return
		}

		h.responder.WriteJSON(w, ingredient)
	}
}
