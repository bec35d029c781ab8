package api

import (
	"time"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/services"
)

// handlerDeps is everything the handlers need beyond the database
type handlerDeps struct {
	store              services.ObjectStore
	tokens             *services.TokenIssuer
	notifier           *services.ContactNotifier
	present            presenter
	maxUploadSize      int64
	maxFeaturedGigs    int
	maxFeaturedContent int
	socials            [][2]string
	startupTime        time.Time
	now                func() time.Time
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, deps handlerDeps) *routeHandlers {
	return &routeHandlers{
		authHandler:    newAuthHandler(database.UserRepo(), deps.tokens),
		gigHandler:     newGigHandler(database.GigRepo(), deps.present, deps.now),
		gigTagHandler:  newGigTagHandler(database.GigTagRepo()),
		crewHandler:    newCrewHandler(database.CrewRepo(), deps.present),
		merchHandler:   newMerchHandler(database.MerchRepo(), deps.present),
		contentHandler: newContentHandler(database.ContentRepo(), deps.present, deps.now),
		fileHandler:    newFileHandler(database.FileUploadRepo(), deps.store, deps.present, deps.maxUploadSize, deps.now),
		fileTagHandler: newFileTagHandler(database.FileTagRepo()),
		userHandler:    newUserHandler(database.UserRepo()),
		homeHandler:    newHomeHandler(database.PlacementRepo(), deps.present, deps.maxFeaturedGigs, deps.maxFeaturedContent, deps.now),
		contactHandler: newContactHandler(database.ContactRepo(), deps.notifier),
		siteHandler:    newSiteHandler(database, deps.socials, deps.startupTime),
	}
}
