package http

import (
	"log/slog"

	"github.com/geocoder89/tasktracker/internal/auth"
	"github.com/geocoder89/tasktracker/internal/cache"
	"github.com/geocoder89/tasktracker/internal/config"
	"github.com/geocoder89/tasktracker/internal/domain/task"
	"github.com/geocoder89/tasktracker/internal/http/handlers"
	"github.com/geocoder89/tasktracker/internal/http/middlewares"
	"github.com/geocoder89/tasktracker/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// UserStore is everything the auth routes and the gate need from the credential store.
type UserStore interface {
	handlers.UserReader
	handlers.UserWriter
	middlewares.UserLookup
}

// Deps are the stores and shared services the router wires together.
type Deps struct {
	Users  UserStore
	Tasks  handlers.TasksStore
	Cache  cache.Store
	Prom   *observability.Prom
	Checks map[string]handlers.Check

	// ShuttingDown flips readiness to 503 while the server drains.
	ShuttingDown func() bool
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	prom := deps.Prom
	if prom == nil {
		prom = observability.NewProm()
	}

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	jwtManager := auth.NewManager(cfg.Secret(), cfg.TokenTTL)
	authMiddleware := middlewares.NewAuthMiddleware(jwtManager, deps.Users, prom)

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Users, jwtManager, cfg)
	tasksHandler := handlers.NewTasksHandler(deps.Tasks, deps.Cache, prom)
	healthHandler := handlers.NewHealthHandler(deps.Checks, deps.ShuttingDown)

	// Routes
	r.GET("/", handlers.Hello)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/metrics", prom.Handler())
	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// credential routes never pass through the gate
	r.POST("/register", middlewares.RequireJSON(), authHandler.Register)
	r.POST("/login", middlewares.RequireJSON(), authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)

	tasks := r.Group("/tasks")
	tasks.Use(authMiddleware.RequireAuth(), middlewares.RequireJSON())
	{
		tasks.GET("", tasksHandler.ListTasks)
		tasks.POST("", tasksHandler.CreateTask)
		tasks.POST("/todo", tasksHandler.CreateWithStatus(task.StatusToDo))
		tasks.POST("/inprogress", tasksHandler.CreateWithStatus(task.StatusInProgress))
		tasks.POST("/underreview", tasksHandler.CreateWithStatus(task.StatusUnderReview))
		tasks.POST("/finished", tasksHandler.CreateWithStatus(task.StatusFinished))
		tasks.GET("/:id", tasksHandler.GetTask)
		tasks.PUT("/:id", tasksHandler.UpdateTask)
		tasks.PATCH("/:id", tasksHandler.PatchTask)
		tasks.DELETE("/:id", tasksHandler.DeleteTask)
	}

	return r
}
