package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/database"
	"github.com/platefeed/platefeed-backend/errs"
	"github.com/platefeed/platefeed-backend/models"
	"github.com/platefeed/platefeed-backend/services"
)

type recipeHandler struct {
	responder    Responder
	logger       zerolog.Logger
	recipeRepo   *database.RecipeRepo
	userRepo     *database.UserRepo
	composer     *services.Composer
	shoppingList *services.ShoppingListService
}

func newRecipeHandler(recipeRepo *database.RecipeRepo, userRepo *database.UserRepo, composer *services.Composer, shoppingList *services.ShoppingListService) recipeHandler {
	logger := log.With().Str("handlerName", "recipeHandler").Logger()

	return recipeHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		recipeRepo:   recipeRepo,
		userRepo:     userRepo,
		composer:     composer,
		shoppingList: shoppingList,
	}
}

// recipePayload is the recipe write body. Ingredients reference
// existing ingredient ids with a per-recipe amount; tags reference
// existing tag ids.
type recipePayload struct {
	Ingredients []recipeIngredientPayload `json:"ingredients"`
	Tags        []uuid.UUID               `json:"tags"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
}

type recipeIngredientPayload struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

func (p recipePayload) toInput() services.RecipeInput {
	pairs := make([]services.IngredientAmount, 0, len(p.Ingredients))
	for _, ingredient := range p.Ingredients {
		pairs = append(pairs, services.IngredientAmount{
			IngredientID: ingredient.ID,
			Amount:       ingredient.Amount,
		})
	}
	return services.RecipeInput{
		Name:        p.Name,
		Text:        p.Text,
		CookingTime: p.CookingTime,
		Image:       p.Image,
		Ingredients: pairs,
		TagIDs:      p.Tags,
	}
}

// getAllRecipes lists recipes newest-first with tag/author/viewer
// filters. Viewer flags are annotated with two membership queries per
// request, never one per recipe.
func (h recipeHandler) getAllRecipes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := recipeFilterFromQuery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipes, err := h.recipeRepo.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find recipes", "recipes", err))
			return
		}

		viewerID := uuid.Nil
		if viewer, ok := principalFromCtx(r.Context()); ok {
			viewerID = viewer.ID
		}
		if err := h.annotateForViewer(recipes, viewerID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("annotate", "recipes", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"recipes": newRecipeViews(recipes),
			"total":   len(recipes),
		})
	}
}

// getRecipe returns one recipe with its full composition
func (h recipeHandler) getRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		recipe, err := h.recipeRepo.FindByID(recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find recipe", "recipe", err))
			return
		}
		if recipe == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("recipe not found"))
			return
		}

		viewerID := uuid.Nil
		if viewer, ok := principalFromCtx(r.Context()); ok {
			viewerID = viewer.ID
		}
		if err := h.annotateForViewer([]*models.Recipe{recipe}, viewerID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("annotate", "recipe", err))
			return
		}

		h.responder.WriteJSON(w, newRecipeView(recipe))
	}
}

// createRecipe composes a new recipe for the authenticated author
func (h recipeHandler) createRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, ok := principalFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var payload recipePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode recipe request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		recipe, err := h.composer.Create(*author, payload.toInput())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newRecipeView(recipe))
	}
}

// updateRecipe fully replaces a recipe's fields, ingredient set and tag
// set. Author or admin only.
func (h recipeHandler) updateRecipe() http.HandlerFunc {
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

		var payload recipePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode recipe request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		recipe, err := h.composer.Update(recipeID, *viewer, payload.toInput())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newRecipeView(recipe))
	}
}

// deleteRecipe deletes a recipe. Author or admin only; cascades clean
// up ingredient rows, tag links and favorite/cart entries.
func (h recipeHandler) deleteRecipe() http.HandlerFunc {
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

		if err := h.composer.Delete(recipeID, *viewer); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// downloadShoppingCart renders the aggregated shopping list as a plain
// text attachment
func (h recipeHandler) downloadShoppingCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := principalFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		lines, err := h.shoppingList.Build(viewer.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		content := services.RenderShoppingList(*viewer, lines)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
		if _, err := w.Write([]byte(content)); err != nil {
			h.logger.Error().Err(err).Msg("error writing shopping list response")
		}
	}
}

// annotateForViewer fills every viewer-relative flag on the recipes:
// favorite and cart membership on the recipe itself, subscription state
// on the embedded author. Three membership queries per request, never
// one per recipe.
func (h recipeHandler) annotateForViewer(recipes []*models.Recipe, viewerID uuid.UUID) error {
	if err := h.recipeRepo.AnnotateViewerFlags(recipes, viewerID); err != nil {
		return err
	}
	return h.userRepo.AnnotateSubscribed(recipeAuthors(recipes), viewerID)
}

// recipeAuthors returns pointers to the author embedded in each recipe,
// so annotation writes through to the rendered payload.
func recipeAuthors(recipes []*models.Recipe) []*models.User {
	authors := make([]*models.User, 0, len(recipes))
	for _, recipe := range recipes {
		authors = append(authors, &recipe.Author)
	}
	return authors
}

// recipeFilterFromQuery parses the recipe list query parameters.
// Viewer-scoped filters are no-ops for anonymous requests.
func recipeFilterFromQuery(r *http.Request) (database.RecipeFilter, error) {
	query := r.URL.Query()
	filter := database.RecipeFilter{
		TagSlugs: query["tags"],
	}

	if raw := query.Get("author"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			return filter, errs.NewInvalidFieldError("author", "must be a valid id")
		}
		filter.AuthorID = authorID
	}

	viewer, authed := principalFromCtx(r.Context())
	if flagSet(query.Get("is_favorited")) && authed {
		filter.FavoritedBy = viewer.ID
	}
	if flagSet(query.Get("is_in_shopping_cart")) && authed {
		filter.InCartOf = viewer.ID
	}

	var err error
	if filter.Limit, err = intParam(query.Get("limit")); err != nil {
		return filter, errs.NewInvalidFieldError("limit", "must be a non-negative integer")
	}
	if filter.Offset, err = intParam(query.Get("offset")); err != nil {
		return filter, errs.NewInvalidFieldError("offset", "must be a non-negative integer")
	}
	return filter, nil
}

func flagSet(raw string) bool {
	return raw == "1" || raw == "true"
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errs.ErrInvalidField
	}
	return value, nil
}
