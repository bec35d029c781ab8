package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/atmos-collective/atmos-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type contentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contentRepo *database.ContentRepo
	present     presenter
	now         func() time.Time
}

func newContentHandler(contentRepo *database.ContentRepo, present presenter, now func() time.Time) contentHandler {
	logger := log.With().Str("handlerName", "contentHandler").Logger()

	return contentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		contentRepo: contentRepo,
		present:     present,
		now:         now,
	}
}

func contentFromRequest(req contentRequest) (*models.ContentItem, error) {
	if !req.Type.Valid() {
		return nil, errs.NewInvalidFieldError("type", "expected MIX, VIDEO, ARTICLE, PHOTO or SOCIAL")
	}
	title, err := requireText("title", req.Title, 200)
	if err != nil {
		return nil, err
	}
	url, err := requireText("url", req.URL, 2048)
	if err != nil {
		return nil, err
	}
	if !services.IsAbsoluteURL(url) {
		return nil, errs.NewInvalidFieldError("url", "must be an absolute http(s) URL")
	}

	item := &models.ContentItem{
		Type:         req.Type,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		URL:          url,
		ThumbnailURL: cleanOptional(req.ThumbnailURL),
	}
	if req.PublishedAt != nil {
		publishedAt := req.PublishedAt.UTC()
		item.PublishedAt = &publishedAt
	}
	if len(req.Metadata) > 0 && string(req.Metadata) != "null" {
		if !json.Valid(req.Metadata) {
			return nil, errs.NewInvalidFieldError("metadata", "must be valid JSON")
		}
		item.Metadata = datatypes.JSON(req.Metadata)
	}
	return item, nil
}

// getAllContent lists content newest first
// @Summary Get content
// @Tags Content
// @Produce json
// @Param type query string false "MIX, VIDEO, ARTICLE, PHOTO or SOCIAL"
// @Success 200 {array} contentView "Content with embed and thumbnail URLs"
// @Router /content [get]
func (h contentHandler) getAllContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentType := models.ContentType(strings.ToUpper(r.URL.Query().Get("type")))
		if contentType != "" && !contentType.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("type", "expected MIX, VIDEO, ARTICLE, PHOTO or SOCIAL"))
			return
		}

		items, err := h.contentRepo.FindAll(r.Context(), contentType)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find content", "content", err))
			return
		}
		h.responder.WriteJSON(w, h.present.content(items))
	}
}

func (h contentHandler) getContentItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentID, err := urlParamUUID(r, "contentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.contentRepo.FindByID(r.Context(), contentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find content item", "content item", err))
			return
		}
		h.responder.WriteJSON(w, h.present.contentItem(item))
	}
}

func (h contentHandler) createContentItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contentRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := contentFromRequest(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contentRepo.Add(r.Context(), item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create content item", "content item", err))
			return
		}
		h.responder.WriteCreated(w, h.present.contentItem(item))
	}
}

func (h contentHandler) updateContentItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentID, err := urlParamUUID(r, "contentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req contentRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := contentFromRequest(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item.ID = contentID
		item.UpdatedAt = h.now().UTC()

		if err := h.contentRepo.Update(r.Context(), item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update content item", "content item", err))
			return
		}

		updated, err := h.contentRepo.FindByID(r.Context(), contentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find content item", "content item", err))
			return
		}
		h.responder.WriteJSON(w, h.present.contentItem(updated))
	}
}

func (h contentHandler) deleteContentItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentID, err := urlParamUUID(r, "contentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contentRepo.Delete(r.Context(), contentID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete content item", "content item", err))
			return
		}
		h.responder.WriteJSON(w, statusResponse{Status: "success", Message: "content item deleted successfully"})
	}
}
