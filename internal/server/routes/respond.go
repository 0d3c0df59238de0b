package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/logger"
)

type messageResponse struct {
	Message string `json:"message"`
}

// statusForKind maps domain error kinds to HTTP statuses. Anything unmapped
// is a server fault.
var statusForKind = map[common.ErrorKind]int{
	common.KindNotFound:               http.StatusNotFound,
	common.KindConflict:               http.StatusConflict,
	common.KindInvalidOperation:       http.StatusBadRequest,
	common.KindInvalidStateTransition: http.StatusConflict,
	common.KindConsentRequired:        http.StatusForbidden,
	common.KindContentTooShort:        http.StatusUnprocessableEntity,
	common.KindValidation:             http.StatusBadRequest,
	common.KindResponseValidation:     http.StatusBadGateway,
	common.KindAPIError:               http.StatusBadGateway,
	common.KindRateLimit:              http.StatusTooManyRequests,
	common.KindAuthentication:         http.StatusBadGateway,
	common.KindNetwork:                http.StatusBadGateway,
}

// respondError translates a service error into the JSON error response.
// Domain errors carry a user-safe message; everything else becomes a plain
// 500 and is logged with its cause.
func respondError(c echo.Context, err error) error {
	var de *common.Error
	if errors.As(err, &de) {
		if status, ok := statusForKind[de.Kind]; ok {
			return c.JSON(status, messageResponse{Message: de.Message})
		}
	}

	logger.Error("[API] Unhandled error", "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
}
