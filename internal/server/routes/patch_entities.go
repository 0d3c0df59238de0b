package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/graph"
)

// EditEntityHandler applies a partial update to an entity. Absent fields
// stay unchanged.
func EditEntityHandler(c echo.Context) error {
	type editEntityBody struct {
		Name        *string `json:"name"`
		Type        *string `json:"type"`
		Description *string `json:"description"`
	}

	data := new(editEntityBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}

	input := graph.UpdateEntityInput{
		Name:        data.Name,
		Description: data.Description,
	}
	if data.Type != nil {
		entityType := common.EntityType(*data.Type)
		input.Type = &entityType
	}

	cc := c.(*middleware.AppContext)
	entity, err := cc.App.Services.Entities.Update(c.Request().Context(), cc.UserID, c.Param("id"), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, entity)
}
