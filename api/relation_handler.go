package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/errs"
	"github.com/platefeed/platefeed-backend/services"
)

type relationHandler struct {
	responder     Responder
	logger        zerolog.Logger
	favorites     *services.RecipeRelation
	shoppingCart  *services.RecipeRelation
	subscriptions *services.SubscriptionService
}

func newRelationHandler(favorites, shoppingCart *services.RecipeRelation, subscriptions *services.SubscriptionService) relationHandler {
	logger := log.With().Str("handlerName", "relationHandler").Logger()

	return relationHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		favorites:     favorites,
		shoppingCart:  shoppingCart,
		subscriptions: subscriptions,
	}
}

func (h relationHandler) addFavorite() http.HandlerFunc {
	return h.addRecipeRelation(h.favorites)
}

func (h relationHandler) removeFavorite() http.HandlerFunc {
	return h.removeRecipeRelation(h.favorites)
}

func (h relationHandler) addToShoppingCart() http.HandlerFunc {
	return h.addRecipeRelation(h.shoppingCart)
}

func (h relationHandler) removeFromShoppingCart() http.HandlerFunc {
	return h.removeRecipeRelation(h.shoppingCart)
}

// addRecipeRelation marks a recipe for the viewer and answers with the
// compact recipe shape
func (h relationHandler) addRecipeRelation(relation *services.RecipeRelation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := principalFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		recipe, err := relation.Add(viewer.ID, recipeID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newRecipeCompactView(recipe))
	}
}

func (h relationHandler) removeRecipeRelation(relation *services.RecipeRelation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := principalFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		if err := relation.Remove(viewer.ID, recipeID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// subscribe follows an author and answers with the author summary
func (h relationHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := principalFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		authorID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		limit, err := services.ParseRecipesLimit(r.URL.Query().Get("recipes_limit"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		summary, err := h.subscriptions.Subscribe(viewer.ID, authorID, limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newAuthorSummaryView(summary))
	}
}

func (h relationHandler) unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := principalFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		authorID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		if err := h.subscriptions.Unsubscribe(viewer.ID, authorID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
