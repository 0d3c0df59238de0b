package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/graph"
)

type entityLinkBody struct {
	EntityID string `json:"entity_id" validate:"required"`
	Type     string `json:"type"`
}

// CreateNoteHandler creates a note, optionally linked to existing entities.
func CreateNoteHandler(c echo.Context) error {
	type createNoteBody struct {
		Title       string           `json:"title" validate:"required"`
		Content     string           `json:"content"`
		EntityLinks []entityLinkBody `json:"entity_links"`
	}

	data := new(createNoteBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}

	links := make([]graph.EntityLinkInput, 0, len(data.EntityLinks))
	for _, link := range data.EntityLinks {
		links = append(links, graph.EntityLinkInput{
			EntityID: link.EntityID,
			Type:     common.RelationType(link.Type),
		})
	}

	cc := c.(*middleware.AppContext)
	note, err := cc.App.Services.Notes.Create(c.Request().Context(), cc.UserID, graph.CreateNoteInput{
		Title:       data.Title,
		Content:     data.Content,
		EntityLinks: links,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, note)
}
