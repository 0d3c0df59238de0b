package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// EditRelationshipHandler changes a relationship's type. Endpoints are
// immutable; delete and recreate to rewire.
func EditRelationshipHandler(c echo.Context) error {
	type editRelationshipBody struct {
		Type string `json:"type" validate:"required"`
	}

	data := new(editRelationshipBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	relationship, err := cc.App.Services.Relationships.Update(
		c.Request().Context(),
		cc.UserID,
		c.Param("id"),
		common.RelationType(data.Type),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, relationship)
}
