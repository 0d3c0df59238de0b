package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
)

// DeleteNoteHandler deletes a note. Entities that were only referenced by
// this note are removed along with it.
func DeleteNoteHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	if err := cc.App.Services.Notes.Delete(c.Request().Context(), cc.UserID, c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Note deleted"})
}
