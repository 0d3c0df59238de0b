package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/lattice-hq/lattice/backend/pkg/graph"
)

// App holds the process-wide dependencies handlers reach through the
// request context.
type App struct {
	DBConn   *pgxpool.Pool
	Key      *keyfunc.Keyfunc
	Services *graph.Services
}

// AppContext wraps the echo context with the app dependencies and, after
// AuthMiddleware ran, the authenticated user's id.
type AppContext struct {
	echo.Context
	App    *App
	UserID string
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app, ""})
		}
	}
}
