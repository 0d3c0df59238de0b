package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
)

// GetGraphHandler returns the user's whole graph as nodes and edges.
func GetGraphHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	view, err := cc.App.Services.Assembler.Assemble(c.Request().Context(), cc.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, view)
}
