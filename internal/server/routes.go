package server

import (
	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Entity routes
	apiRoutes.GET("/entities", routes.GetEntitiesHandler)
	apiRoutes.POST("/entities", routes.CreateEntityHandler)
	apiRoutes.GET("/entities/:id", routes.GetEntityHandler)
	apiRoutes.PATCH("/entities/:id", routes.EditEntityHandler)
	apiRoutes.DELETE("/entities/:id", routes.DeleteEntityHandler)

	// Relationship routes
	apiRoutes.GET("/relationships", routes.GetRelationshipsHandler)
	apiRoutes.POST("/relationships", routes.CreateRelationshipHandler)
	apiRoutes.PATCH("/relationships/:id", routes.EditRelationshipHandler)
	apiRoutes.DELETE("/relationships/:id", routes.DeleteRelationshipHandler)

	// Note routes
	apiRoutes.GET("/notes", routes.GetNotesHandler)
	apiRoutes.POST("/notes", routes.CreateNoteHandler)
	apiRoutes.GET("/notes/:id", routes.GetNoteHandler)
	apiRoutes.PATCH("/notes/:id", routes.EditNoteHandler)
	apiRoutes.DELETE("/notes/:id", routes.DeleteNoteHandler)

	// Note link routes
	apiRoutes.POST("/notes/:id/entities", routes.AddNoteLinkHandler)
	apiRoutes.DELETE("/notes/:id/entities/:entity_id", routes.DeleteNoteLinkHandler)

	// Graph view route
	apiRoutes.GET("/graph", routes.GetGraphHandler)

	// Suggestion routes
	apiRoutes.POST("/notes/:id/suggestions", routes.GenerateSuggestionsHandler)
	apiRoutes.GET("/notes/:id/suggestions", routes.GetSuggestionsHandler)
	apiRoutes.PATCH("/suggestions/:id", routes.DecideSuggestionHandler)

	// Profile routes
	apiRoutes.GET("/profile", routes.GetProfileHandler)
	apiRoutes.PUT("/profile/consent", routes.SetConsentHandler)
}
