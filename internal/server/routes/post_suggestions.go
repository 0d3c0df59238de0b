package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// GenerateSuggestionsHandler runs the AI model over a note and stores the
// resulting suggestions as pending.
func GenerateSuggestionsHandler(c echo.Context) error {
	type generateSuggestionsResponse struct {
		Suggestions []common.Suggestion `json:"suggestions"`
	}

	cc := c.(*middleware.AppContext)
	suggestions, err := cc.App.Services.Suggestions.Generate(c.Request().Context(), cc.UserID, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, generateSuggestionsResponse{Suggestions: suggestions})
}
