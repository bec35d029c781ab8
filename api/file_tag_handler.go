package api

import (
	"net/http"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type fileTagHandler struct {
	responder   Responder
	logger      zerolog.Logger
	fileTagRepo *database.FileTagRepo
}

func newFileTagHandler(fileTagRepo *database.FileTagRepo) fileTagHandler {
	logger := log.With().Str("handlerName", "fileTagHandler").Logger()

	return fileTagHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		fileTagRepo: fileTagRepo,
	}
}

// getAllFileTags lists tags with how many live files carry each
func (h fileTagHandler) getAllFileTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.fileTagRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find file tags", "file tags", err))
			return
		}
		if tags == nil {
			tags = []*database.FileTagUsage{}
		}
		h.responder.WriteJSON(w, tags)
	}
}

func (h fileTagHandler) createFileTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fileTagRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		name, err := requireText("name", req.Name, 50)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag := &models.FileTag{Name: name}
		if err := h.fileTagRepo.Add(r.Context(), tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create file tag", "file tag", err))
			return
		}
		h.responder.WriteCreated(w, tag)
	}
}

func (h fileTagHandler) deleteFileTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := urlParamUUID(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.fileTagRepo.Delete(r.Context(), tagID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete file tag", "file tag", err))
			return
		}
		h.responder.WriteJSON(w, statusResponse{Status: "success", Message: "file tag deleted successfully"})
	}
}
