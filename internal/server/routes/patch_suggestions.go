package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// DecideSuggestionHandler accepts or rejects a pending suggestion.
// Accepting applies the suggested change to the graph.
func DecideSuggestionHandler(c echo.Context) error {
	type decideSuggestionBody struct {
		Status string `json:"status" validate:"required,oneof=accepted rejected"`
	}

	data := new(decideSuggestionBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	suggestion, err := cc.App.Services.Suggestions.UpdateStatus(
		c.Request().Context(),
		cc.UserID,
		c.Param("id"),
		common.SuggestionStatus(data.Status),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, suggestion)
}
