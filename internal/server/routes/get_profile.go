package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
)

// GetProfileHandler returns the user's profile. Users without a stored
// profile get the defaults, with AI processing consent off.
func GetProfileHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	profile, err := cc.App.Services.Profiles.GetProfile(c.Request().Context(), cc.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, profile)
}
