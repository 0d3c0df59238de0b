package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// CreateRelationshipHandler creates a typed relationship between two of the
// user's entities.
func CreateRelationshipHandler(c echo.Context) error {
	type createRelationshipBody struct {
		SourceEntityID string `json:"source_entity_id" validate:"required"`
		TargetEntityID string `json:"target_entity_id" validate:"required"`
		Type           string `json:"type" validate:"required"`
	}

	data := new(createRelationshipBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	relationship, err := cc.App.Services.Relationships.Create(
		c.Request().Context(),
		cc.UserID,
		data.SourceEntityID,
		data.TargetEntityID,
		common.RelationType(data.Type),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, relationship)
}
