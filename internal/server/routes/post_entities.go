package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/graph"
)

// CreateEntityHandler creates a new entity for the user.
func CreateEntityHandler(c echo.Context) error {
	type createEntityBody struct {
		Name        string `json:"name" validate:"required"`
		Type        string `json:"type" validate:"required"`
		Description string `json:"description"`
	}

	data := new(createEntityBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	entity, err := cc.App.Services.Entities.Create(c.Request().Context(), cc.UserID, graph.CreateEntityInput{
		Name:        data.Name,
		Type:        common.EntityType(data.Type),
		Description: data.Description,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, entity)
}
