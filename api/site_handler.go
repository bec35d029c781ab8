package api

import (
	"net/http"
	"time"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type siteHandler struct {
	responder   Responder
	logger      zerolog.Logger
	database    database.Database
	socials     []socialLink
	startupTime time.Time
}

func newSiteHandler(database database.Database, socials [][2]string, startupTime time.Time) siteHandler {
	logger := log.With().Str("handlerName", "siteHandler").Logger()

	links := make([]socialLink, 0, len(socials))
	for _, pair := range socials {
		links = append(links, socialLink{Name: pair[0], URL: pair[1]})
	}

	return siteHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		database:    database,
		socials:     links,
		startupTime: startupTime,
	}
}

func (h siteHandler) getSocials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.socials)
	}
}

// health reports uptime and database reachability. A failed ping returns 503.
func (h siteHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:   "ok",
			Uptime:   time.Since(h.startupTime).Round(time.Second).String(),
			Database: "ok",
		}
		if err := h.database.Ping(); err != nil {
			h.logger.Error().Err(err).Msg("database ping failed")
			resp.Status = "degraded"
			resp.Database = "unreachable"
			h.responder.WriteJSONStatus(w, http.StatusServiceUnavailable, resp)
			return
		}
		h.responder.WriteJSON(w, resp)
	}
}
