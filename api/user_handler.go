package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/database"
	"github.com/platefeed/platefeed-backend/errs"
	"github.com/platefeed/platefeed-backend/models"
	"github.com/platefeed/platefeed-backend/services"
)

type userHandler struct {
	responder     Responder
	logger        zerolog.Logger
	userRepo      *database.UserRepo
	auth          *services.AuthService
	subscriptions *services.SubscriptionService
}

func newUserHandler(userRepo *database.UserRepo, auth *services.AuthService, subscriptions *services.SubscriptionService) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		userRepo:      userRepo,
		auth:          auth,
		subscriptions: subscriptions,
	}
}

// signup registers a new user account
func (h userHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode signup request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		user, err := h.auth.Register(input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newUserView(user))
	}
}

// login exchanges email and password for a bearer token
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode login request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		token, err := h.auth.Login(payload.Email, payload.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{"auth_token": token})
	}
}

// logout is a no-op on the server side. Tokens are stateless and simply
// expire; the client discards its copy.
func (h userHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// getAllUsers lists user profiles with the viewer's subscription flag
func (h userHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.userRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find users", "users", err))
			return
		}

		viewerID := uuid.Nil
		if viewer, ok := principalFromCtx(r.Context()); ok {
			viewerID = viewer.ID
		}
		if err := h.userRepo.AnnotateSubscribed(users, viewerID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("annotate", "users", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"users": newUserViews(users),
			"total": len(users),
		})
	}
}

// getUser returns one user profile. The reserved id "me" resolves to
// the authenticated viewer.
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "userID")

		if raw == "me" {
			viewer, ok := principalFromCtx(r.Context())
			if !ok {
				h.responder.WriteError(w, errs.Unauthorized)
				return
			}
			h.responder.WriteJSON(w, newUserView(viewer))
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}

		viewerID := uuid.Nil
		if viewer, ok := principalFromCtx(r.Context()); ok {
			viewerID = viewer.ID
		}
		if err := h.userRepo.AnnotateSubscribed([]*models.User{user}, viewerID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("annotate", "user", err))
			return
		}

		h.responder.WriteJSON(w, newUserView(user))
	}
}

// setPassword changes the authenticated user's password after
// verifying the current one
func (h userHandler) setPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := principalFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var payload struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode set_password request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := h.auth.SetPassword(viewer.ID, payload.CurrentPassword, payload.NewPassword); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// getSubscriptions lists the authors the viewer follows, each with a
// truncated recipe preview
func (h userHandler) getSubscriptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := principalFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		limit, err := services.ParseRecipesLimit(r.URL.Query().Get("recipes_limit"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		authors, err := h.userRepo.SubscribedAuthors(viewer.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find subscriptions", "users", err))
			return
		}

		summaries, err := h.subscriptions.Summaries(authors, limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"authors": newAuthorSummaryViews(summaries),
			"total":   len(summaries),
		})
	}
}
