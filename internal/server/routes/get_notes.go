package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

// GetNotesHandler lists the user's notes with pagination, an optional title
// search, an optional linked-entity filter, and a sort key.
func GetNotesHandler(c echo.Context) error {
	type getNotesResponse struct {
		Notes []common.Note `json:"notes"`
		Total int           `json:"total"`
		Page  int           `json:"page"`
		Limit int           `json:"limit"`
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	query := store.NoteQuery{
		Page:     page,
		Limit:    limit,
		Sort:     c.QueryParam("sort"),
		Search:   c.QueryParam("search"),
		EntityID: c.QueryParam("entity_id"),
	}

	cc := c.(*middleware.AppContext)
	notes, total, err := cc.App.Services.Notes.List(c.Request().Context(), cc.UserID, query)
	if err != nil {
		return respondError(c, err)
	}

	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 20
	}
	return c.JSON(http.StatusOK, getNotesResponse{
		Notes: notes,
		Total: total,
		Page:  query.Page,
		Limit: query.Limit,
	})
}

// GetNoteHandler returns a single note with its entity links.
func GetNoteHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	note, err := cc.App.Services.Notes.GetByID(c.Request().Context(), cc.UserID, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, note)
}
