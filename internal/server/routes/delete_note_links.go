package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
)

// DeleteNoteLinkHandler unlinks an entity from a note. The entity itself is
// removed when this was its last link.
func DeleteNoteLinkHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	err := cc.App.Services.Notes.RemoveEntityLink(
		c.Request().Context(),
		cc.UserID,
		c.Param("id"),
		c.Param("entity_id"),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Entity unlinked"})
}
