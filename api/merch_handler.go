package api

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

type merchRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"priceCents"`
	Currency    string  `json:"currency"`
	ImageURL    *string `json:"imageUrl"`
	ShopURL     *string `json:"shopUrl"`
	Available   *bool   `json:"available"`
}

type merchHandler struct {
	responder Responder
	logger    zerolog.Logger
	merchRepo *database.MerchRepo
	present   presenter
}

func newMerchHandler(merchRepo *database.MerchRepo, present presenter) merchHandler {
	logger := log.With().Str("handlerName", "merchHandler").Logger()

	return merchHandler{
		responder: NewResponder(logger),
		logger:    logger,
		merchRepo: merchRepo,
		present:   present,
	}
}

// merchFromRequest validates name, price and currency. Items are available
// unless the request says otherwise.
func merchFromRequest(req merchRequest) (*models.MerchItem, error) {
	name, err := requireText("name", req.Name, 120)
	if err != nil {
		return nil, err
	}
	if req.PriceCents < 0 {
		return nil, errs.NewInvalidFieldError("priceCents", "must not be negative")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "GBP"
	}
	if !currencyCode.MatchString(currency) {
		return nil, errs.NewInvalidFieldError("currency", "expected a three letter ISO 4217 code")
	}

	shopURL, err := optionalAbsoluteURL("shopUrl", req.ShopURL)
	if err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	return &models.MerchItem{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		Currency:    currency,
		ImageURL:    cleanOptional(req.ImageURL),
		ShopURL:     shopURL,
		Available:   available,
	}, nil
}

func (h merchHandler) getAllMerch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.merchRepo.FindAll(r.Context(), !ctxIsAdmin(r.Context()))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find merch", "merch", err))
			return
		}
		h.responder.WriteJSON(w, h.present.merch(items))
	}
}

func (h merchHandler) getMerchItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchID, err := urlParamUUID(r, "merchID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.merchRepo.FindByID(r.Context(), merchID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find merch item", "merch item", err))
			return
		}
		h.responder.WriteJSON(w, h.present.merchItem(item))
	}
}

func (h merchHandler) createMerchItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req merchRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := merchFromRequest(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.merchRepo.Add(r.Context(), item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create merch item", "merch item", err))
			return
		}
		h.responder.WriteCreated(w, h.present.merchItem(item))
	}
}

func (h merchHandler) updateMerchItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchID, err := urlParamUUID(r, "merchID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req merchRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := merchFromRequest(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item.ID = merchID

		if err := h.merchRepo.Update(r.Context(), item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update merch item", "merch item", err))
			return
		}

		updated, err := h.merchRepo.FindByID(r.Context(), merchID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find merch item", "merch item", err))
			return
		}
		h.responder.WriteJSON(w, h.present.merchItem(updated))
	}
}

func (h merchHandler) deleteMerchItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchID, err := urlParamUUID(r, "merchID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.merchRepo.Delete(r.Context(), merchID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete merch item", "merch item", err))
			return
		}
		h.responder.WriteJSON(w, statusResponse{Status: "success", Message: "merch item deleted successfully"})
	}
}

func (h merchHandler) reorderMerch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req idsRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		ids, err := parseUUIDs("ids", req.IDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.merchRepo.Reorder(r.Context(), ids); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reorder merch", "merch", err))
			return
		}

		items, err := h.merchRepo.FindAll(r.Context(), false)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find merch", "merch", err))
			return
		}
		h.responder.WriteJSON(w, h.present.merch(items))
	}
}
