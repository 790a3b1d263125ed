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

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tagRepo   *database.TagRepo
}

func newTagHandler(tagRepo *database.TagRepo) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tagRepo:   tagRepo,
	}
}

// getAllTags returns the full tag list, unpaginated
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

// getTag returns one tag by id
func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := uuid.Parse(chi.URLParam(r, "tagID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid tagID"))
			return
		}

		tag, err := h.tagRepo.FindByID(tagID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tag", "tag", err))
			return
		}
		if tag == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("tag not found"))
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}
