package app

import (
	"github.com/pavel-2009/ai-task-assistant/internal/auth"
	"github.com/pavel-2009/ai-task-assistant/internal/cache"
	"github.com/pavel-2009/ai-task-assistant/internal/classifier"
	"github.com/pavel-2009/ai-task-assistant/internal/config"
	"github.com/pavel-2009/ai-task-assistant/internal/handlers"
	"github.com/pavel-2009/ai-task-assistant/internal/repo"
	"github.com/pavel-2009/ai-task-assistant/internal/service"
	"github.com/pavel-2009/ai-task-assistant/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, avatars storage.Store, cls classifier.Provider, log *zap.Logger) {
	r.GET("/", rootHandler(cfg))
	r.GET("/ping", pingHandler())
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(userSvc, tokens)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireAuth(tokens, userSvc, log))
	taskRepo := repo.NewPGTaskRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, taskCache, avatars, cls)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	registerTaskRoutes(protected, taskHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "AI Task Assistant",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/ping",
			"api":     "/api/v1",
		})
	}
}

func pingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.GET("/tasks/search", h.Search)
	api.GET("/tasks/:id", h.GetByID)
	api.PUT("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.POST("/tasks/:id/avatar", h.UploadAvatar)
	api.POST("/tasks/:id/predict", h.Predict)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}
