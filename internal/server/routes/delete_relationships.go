package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
)

// DeleteRelationshipHandler deletes a relationship by id.
func DeleteRelationshipHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	if err := cc.App.Services.Relationships.Delete(c.Request().Context(), cc.UserID, c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Relationship deleted"})
}
