package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

// GetRelationshipsHandler lists the user's relationships, optionally
// filtered by source, target or type via query parameters.
func GetRelationshipsHandler(c echo.Context) error {
	type getRelationshipsResponse struct {
		Relationships []common.Relationship `json:"relationships"`
	}

	filter := store.RelationshipFilter{
		SourceID: c.QueryParam("source_entity_id"),
		TargetID: c.QueryParam("target_entity_id"),
		Type:     common.RelationType(c.QueryParam("type")),
	}

	cc := c.(*middleware.AppContext)
	relationships, err := cc.App.Services.Relationships.List(c.Request().Context(), cc.UserID, filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, getRelationshipsResponse{Relationships: relationships})
}
