package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/timetrack/internal/auth"
	"github.com/geocoder89/timetrack/internal/config"
	"github.com/geocoder89/timetrack/internal/http/handlers"
	"github.com/geocoder89/timetrack/internal/http/middlewares"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/geocoder89/timetrack/internal/report"
	"github.com/geocoder89/timetrack/internal/repo/memory"
	"github.com/geocoder89/timetrack/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

type UserRepo interface {
	handlers.UserStore
	handlers.ProfileStore
}

type ProjectRepo interface {
	handlers.ProjectStore
	handlers.ProjectSnapshotReader
}

// Stores is the persistence the API needs; postgres in production and
// memory for tests and STORE=memory runs.
type Stores struct {
	Users         UserRepo
	RefreshTokens handlers.RefreshTokenStore
	Projects      ProjectRepo
	Tasks         handlers.TaskStore
	TimeEntries   handlers.TimeEntryStore
	Summary       report.Store
}

func PostgresStores(pool *pgxpool.Pool, prom *observability.Prom) Stores {
	return Stores{
		Users:         postgres.NewUsersRepo(pool, prom),
		RefreshTokens: postgres.NewRefreshTokensRepo(pool, prom),
		Projects:      postgres.NewProjectsRepo(pool, prom),
		Tasks:         postgres.NewTasksRepo(pool, prom),
		TimeEntries:   postgres.NewTimeEntriesRepo(pool, prom),
		Summary:       postgres.NewSummaryRepo(pool, prom),
	}
}

func MemoryStores(s *memory.Store) Stores {
	return Stores{
		Users:         s.Users,
		RefreshTokens: s.RefreshTokens,
		Projects:      s.Projects,
		Tasks:         s.Tasks,
		TimeEntries:   s.TimeEntries,
		Summary:       s.Summary,
	}
}

type Deps struct {
	Log      *slog.Logger
	Config   config.Config
	Stores   Stores
	Reports  *report.Service
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Checks   map[string]handlers.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Reports == nil {
		d.Reports = report.NewService(d.Stores.Summary, report.WithProm(d.Prom), report.WithLogger(d.Log))
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	if d.Config.OtelEnabled {
		r.Use(otelgin.Middleware("timetrack-api"))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health
	health := handlers.NewHealthHandler(d.Checks)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	// wire up handlers
	jwtManager := auth.NewManager(d.Config.JWTSecret, d.Config.AccessTTL(), d.Config.RefreshTTL())
	authMW := middlewares.NewAuthMiddleware(jwtManager)
	authLimiter := middlewares.NewRateLimiter(d.Config.AuthRateLimitPerMinute, time.Minute)

	authHandler := handlers.NewAuthHandler(d.Stores.Users, jwtManager, d.Stores.RefreshTokens, d.Config)
	profileHandler := handlers.NewProfileHandler(d.Stores.Users)
	projectsHandler := handlers.NewProjectsHandler(d.Stores.Projects, d.Reports)
	tasksHandler := handlers.NewTasksHandler(d.Stores.Tasks, d.Reports)
	entriesHandler := handlers.NewTimeEntriesHandler(d.Stores.TimeEntries, d.Reports, d.Prom)
	dashboardHandler := handlers.NewDashboardHandler(d.Reports, d.Prom)
	exportHandler := handlers.NewExportHandler(d.Stores.Projects, d.Prom)

	// auth routes (public)
	limited := authLimiter.RateLimiterMiddleware(middlewares.KeyByIP)
	r.POST("/register", limited, middlewares.RequireJSON(), authHandler.Register)
	r.POST("/login", limited, middlewares.RequireJSON(), authHandler.Login)
	r.POST("/auth/refresh", limited, authHandler.Refresh)
	r.POST("/auth/logout", authHandler.Logout)

	// everything below needs an access token
	api := r.Group("/")
	api.Use(authMW.RequireAuth())
	api.Use(middlewares.RequireJSON())

	api.GET("/profile", profileHandler.GetProfile)
	api.PATCH("/profile", profileHandler.UpdateProfile)

	api.GET("/projects", projectsHandler.ListProjects)
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects/:id", projectsHandler.GetProject)
	api.PUT("/projects/:id", projectsHandler.UpdateProject)
	api.DELETE("/projects/:id", projectsHandler.DeleteProject)
	api.GET("/projects/:id/tasks", tasksHandler.ListTasks)
	api.POST("/projects/:id/tasks", tasksHandler.CreateTask)
	api.GET("/projects/:id/export", exportHandler.ExportProject)

	api.GET("/tasks", tasksHandler.ListTasks)
	api.POST("/tasks", tasksHandler.CreateTask)
	api.GET("/tasks/:id", tasksHandler.GetTask)
	api.PUT("/tasks/:id", tasksHandler.UpdateTask)
	api.DELETE("/tasks/:id", tasksHandler.DeleteTask)
	api.GET("/tasks/:id/time-entries", entriesHandler.ListTaskEntries)
	api.POST("/tasks/:id/time-entries", entriesHandler.CreateTimeEntry)

	api.GET("/time-entries", entriesHandler.ListTimeEntries)
	api.POST("/time-entries", entriesHandler.CreateTimeEntry)
	api.GET("/time-entries/:id", entriesHandler.GetTimeEntry)
	api.PUT("/time-entries/:id", entriesHandler.UpdateTimeEntry)
	api.DELETE("/time-entries/:id", entriesHandler.DeleteTimeEntry)

	api.GET("/dashboard", dashboardHandler.Summary)
	api.GET("/dashboard/export", dashboardHandler.Export)

	return r
}

// PoolPinger adapts a pgx pool to a readiness check.
func PoolPinger(pool *pgxpool.Pool) handlers.Pinger {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}
