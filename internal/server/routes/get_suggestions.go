package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// GetSuggestionsHandler lists a note's suggestions, newest first. The
// status query parameter accepts a comma-separated set of statuses.
func GetSuggestionsHandler(c echo.Context) error {
	type getSuggestionsResponse struct {
		Suggestions []common.Suggestion `json:"suggestions"`
	}

	var statuses []common.SuggestionStatus
	if raw := c.QueryParam("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, common.SuggestionStatus(strings.TrimSpace(s)))
		}
	}

	cc := c.(*middleware.AppContext)
	suggestions, err := cc.App.Services.Suggestions.List(c.Request().Context(), cc.UserID, c.Param("id"), statuses)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, getSuggestionsResponse{Suggestions: suggestions})
}
