package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/graph"
)

// EditNoteHandler applies a partial note update. A present entity_links
// array replaces the note's full link set; entities that lose their last
// link are removed from the graph.
func EditNoteHandler(c echo.Context) error {
	type editNoteBody struct {
		Title       *string           `json:"title"`
		Content     *string           `json:"content"`
		EntityLinks *[]entityLinkBody `json:"entity_links"`
	}

	data := new(editNoteBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}

	input := graph.UpdateNoteInput{
		Title:   data.Title,
		Content: data.Content,
	}
	if data.EntityLinks != nil {
		links := make([]graph.EntityLinkInput, 0, len(*data.EntityLinks))
		for _, link := range *data.EntityLinks {
			links = append(links, graph.EntityLinkInput{
				EntityID: link.EntityID,
				Type:     common.RelationType(link.Type),
			})
		}
		input.EntityLinks = &links
	}

	cc := c.(*middleware.AppContext)
	note, err := cc.App.Services.Notes.Update(c.Request().Context(), cc.UserID, c.Param("id"), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, note)
}
