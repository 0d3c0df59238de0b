package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
)

// DeleteEntityHandler deletes an entity together with its relationships and
// note links.
func DeleteEntityHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	if err := cc.App.Services.Entities.Delete(c.Request().Context(), cc.UserID, c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Entity deleted"})
}
