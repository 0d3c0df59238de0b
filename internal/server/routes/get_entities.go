package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// GetEntitiesHandler lists the user's entities with their note counts.
func GetEntitiesHandler(c echo.Context) error {
	type getEntitiesResponse struct {
		Entities []common.EntityWithNoteCount `json:"entities"`
	}

	cc := c.(*middleware.AppContext)
	entities, err := cc.App.Services.Entities.List(c.Request().Context(), cc.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, getEntitiesResponse{Entities: entities})
}

// GetEntityHandler returns a single entity by id.
func GetEntityHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	entity, err := cc.App.Services.Entities.GetByID(c.Request().Context(), cc.UserID, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, entity)
}
