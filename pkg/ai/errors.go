package ai

import (
	"context"
	"errors"
	"net"

	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// ClassifyTransportError maps a provider or network failure onto the domain
// error taxonomy using the HTTP status (0 when none was received). Callers
// treat rate-limit, server and network kinds as retryable; authentication
// and bad-request kinds are not.
func ClassifyTransportError(status int, err error) error {
	switch {
	case status == 401 || status == 403:
		return common.WrapError(common.KindAuthentication, "AI provider rejected the credentials", err)
	case status == 429:
		return common.WrapError(common.KindRateLimit, "AI provider rate limit exceeded", err)
	case status == 400 || status == 404 || status == 422:
		return common.WrapError(common.KindAPIError, "AI request was rejected by the provider", err)
	case status >= 500:
		return common.WrapError(common.KindAPIError, "AI provider returned a server error", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return common.WrapError(common.KindNetwork, "AI request timed out or failed to connect", err)
	}
	return common.WrapError(common.KindAPIError, "AI request failed", err)
}
