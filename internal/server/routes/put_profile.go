package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/internal/server/middleware"
)

// SetConsentHandler records the user's AI processing consent decision.
func SetConsentHandler(c echo.Context) error {
	type setConsentBody struct {
		HasAgreedToAIProcessing *bool `json:"has_agreed_to_ai_processing" validate:"required"`
	}

	data := new(setConsentBody)
	if err := c.Bind(data); err != nil || data.HasAgreedToAIProcessing == nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	profile, err := cc.App.Services.Profiles.SetConsent(c.Request().Context(), cc.UserID, *data.HasAgreedToAIProcessing)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, profile)
}
