package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes registers what the site itself reads. Requests may carry
// a token; admins then also see drafts and unavailable items.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.identify)

		r.Post("/auth/login", handlers.authHandler.login())
		r.Get("/health", handlers.siteHandler.health())
		r.Get("/socials", handlers.siteHandler.getSocials())

		r.Get("/gigs", handlers.gigHandler.getAllGigs())
		r.Get("/gig/{gigID}", handlers.gigHandler.getGig())
		r.Get("/gig-tags", handlers.gigTagHandler.getAllGigTags())

		r.Get("/crew", handlers.crewHandler.getAllCrew())
		r.Get("/crew/{crewID}", handlers.crewHandler.getCrewMember())

		r.Get("/merch", handlers.merchHandler.getAllMerch())
		r.Get("/merch/{merchID}", handlers.merchHandler.getMerchItem())

		r.Get("/content", handlers.contentHandler.getAllContent())
		r.Get("/content/{contentID}", handlers.contentHandler.getContentItem())

		r.Get("/home", handlers.homeHandler.getHome())
		r.Get("/home/gigs", handlers.homeHandler.getHomeGigs())
		r.Get("/home/content", handlers.homeHandler.getHomeContent())

		r.Post("/contact", handlers.contactHandler.submitContact())
	})
}

// setupAdminRoutes sets up all routes with authentication
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Get("/auth/me", handlers.authHandler.me())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)

			// Gigs
			r.Post("/gig", handlers.gigHandler.createGig())
			r.Put("/gig/{gigID}", handlers.gigHandler.updateGig())
			r.Delete("/gig/{gigID}", handlers.gigHandler.deleteGig())
			r.Post("/gig/{gigID}/media", handlers.gigHandler.addMedia())
			r.Delete("/gig/{gigID}/media/{mediaID}", handlers.gigHandler.deleteMedia())
			r.Put("/gig/{gigID}/media/order", handlers.gigHandler.reorderMedia())
			r.Put("/gig/{gigID}/tags", handlers.gigHandler.setTags())
			r.Post("/gig-tag", handlers.gigTagHandler.createGigTag())
			r.Delete("/gig-tag/{tagID}", handlers.gigTagHandler.deleteGigTag())

			// Crew
			r.Post("/crew", handlers.crewHandler.createCrewMember())
			r.Put("/crew/{crewID}", handlers.crewHandler.updateCrewMember())
			r.Delete("/crew/{crewID}", handlers.crewHandler.deleteCrewMember())
			r.Put("/crew-order", handlers.crewHandler.reorderCrew())

			// Merch
			r.Post("/merch", handlers.merchHandler.createMerchItem())
			r.Put("/merch/{merchID}", handlers.merchHandler.updateMerchItem())
			r.Delete("/merch/{merchID}", handlers.merchHandler.deleteMerchItem())
			r.Put("/merch-order", handlers.merchHandler.reorderMerch())

			// Content
			r.Post("/content", handlers.contentHandler.createContentItem())
			r.Put("/content/{contentID}", handlers.contentHandler.updateContentItem())
			r.Delete("/content/{contentID}", handlers.contentHandler.deleteContentItem())

			// Files
			r.Get("/files", handlers.fileHandler.getAllFiles())
			r.Post("/files", handlers.fileHandler.uploadFile())
			r.Post("/files/presign", handlers.fileHandler.presignUpload())
			r.Post("/files/purge", handlers.fileHandler.purgeFiles())
			r.Get("/file/{fileID}", handlers.fileHandler.getFile())
			r.Post("/file/{fileID}/confirm", handlers.fileHandler.confirmUpload())
			r.Put("/file/{fileID}/tags", handlers.fileHandler.setFileTags())
			r.Delete("/file/{fileID}", handlers.fileHandler.softDeleteFile())
			r.Post("/file/{fileID}/restore", handlers.fileHandler.restoreFile())
			r.Delete("/file/{fileID}/purge", handlers.fileHandler.purgeFile())
			r.Get("/file-tags", handlers.fileTagHandler.getAllFileTags())
			r.Post("/file-tag", handlers.fileTagHandler.createFileTag())
			r.Delete("/file-tag/{tagID}", handlers.fileTagHandler.deleteFileTag())

			// Users
			r.Get("/users", handlers.userHandler.getAllUsers())
			r.Get("/user/{userID}", handlers.userHandler.getUser())
			r.Post("/user", handlers.userHandler.createUser())
			r.Put("/user/{userID}/role", handlers.userHandler.updateUserRole())
			r.Delete("/user/{userID}", handlers.userHandler.deleteUser())

			// Home placements
			r.Put("/home/gigs", handlers.homeHandler.setGigPlacements())
			r.Put("/home/content", handlers.homeHandler.setContentPlacements())

			// Contact submissions
			r.Get("/contact-submissions", handlers.contactHandler.getAllSubmissions())
			r.Put("/contact-submission/{submissionID}/handled", handlers.contactHandler.setHandled())
			r.Delete("/contact-submission/{submissionID}", handlers.contactHandler.deleteSubmission())
		})
	})
}
