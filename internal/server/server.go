package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	mid "github.com/lattice-hq/lattice/backend/internal/server/middleware"
	"github.com/lattice-hq/lattice/backend/internal/util"
	"github.com/lattice-hq/lattice/backend/pkg/ai"
	oai "github.com/lattice-hq/lattice/backend/pkg/ai/ollama"
	gai "github.com/lattice-hq/lattice/backend/pkg/ai/openai"
	"github.com/lattice-hq/lattice/backend/pkg/graph"
	"github.com/lattice-hq/lattice/backend/pkg/logger"
	pgstore "github.com/lattice-hq/lattice/backend/pkg/store/pgx"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func newAIClient() ai.Client {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewClient(oai.NewClientParams{
			ChatModel: util.GetEnv("AI_CHAT_MODEL"),
			BaseURL:   util.GetEnv("AI_CHAT_URL"),
			ApiKey:    util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewClient(gai.NewClientParams{
			ChatModel: util.GetEnv("AI_CHAT_MODEL"),
			ChatURL:   util.GetEnv("AI_CHAT_URL"),
			ChatKey:   util.GetEnv("AI_CHAT_KEY"),
		})
	}
}

func runMigrations(databaseURL string) {
	m, err := migrate.New(util.GetEnvString("MIGRATIONS_URL", "file://migrations"), databaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize migrations", "err", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Fatal("Failed to apply migrations", "err", err)
	}
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	jwksUrl := util.GetEnv("AUTH_URL") + "/jwks"
	k, err := keyfunc.NewDefault([]string{jwksUrl})
	if err != nil {
		logger.Fatal("Failed to load jwks keys", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	runMigrations(databaseURL)

	conn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	services := graph.NewServices(graph.NewServicesParams{
		Store:     pgstore.NewStore(conn),
		AIClient:  newAIClient(),
		AITimeout: util.GetEnvDuration("AI_TIMEOUT", time.Minute),
	})

	app := &mid.App{
		DBConn:   conn,
		Key:      &k,
		Services: services,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
