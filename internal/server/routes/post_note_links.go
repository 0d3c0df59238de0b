package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// AddNoteLinkHandler links an existing entity to a note.
func AddNoteLinkHandler(c echo.Context) error {
	data := new(entityLinkBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	err := cc.App.Services.Notes.AddEntityLink(
		c.Request().Context(),
		cc.UserID,
		c.Param("id"),
		data.EntityID,
		common.RelationType(data.Type),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "Entity linked"})
}
