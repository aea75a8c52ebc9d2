package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusorgs/oms-api/internal/config"
	"github.com/campusorgs/oms-api/internal/constants"
	"github.com/campusorgs/oms-api/internal/database"
	"github.com/campusorgs/oms-api/internal/handlers"
	"github.com/campusorgs/oms-api/internal/logging"
	"github.com/campusorgs/oms-api/internal/middleware"
	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
	"github.com/campusorgs/oms-api/internal/services"
	"github.com/campusorgs/oms-api/internal/storage"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.GinMode)
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// Blob store is optional; endpoints depending on it report it unavailable.
	var uploads *storage.S3
	if cfg.AWSAccessKeyID != "" || cfg.UploadsBaseURL != "" {
		var err error
		uploads, err = storage.NewS3(context.Background(), storage.Config{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Bucket:          cfg.UploadsBucket,
			BaseURL:         cfg.UploadsBaseURL,
		}, logger)
		if err != nil {
			logger.Fatal("blob store setup failed", zap.Error(err))
		}
	} else {
		logger.Warn("blob store not configured, uploads disabled")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(10, "tcp", redisAddr, "", "", []byte(cfg.SessionSecret))
	if err != nil {
		logger.Fatal("session store setup failed", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	eventRepo := repository.NewEventRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, orgRepo)
	orgService := services.NewOrganizationService(orgRepo)
	membershipService := services.NewMembershipService(membershipRepo, orgRepo)
	eventService := services.NewEventService(eventRepo)
	engagementService := services.NewEngagementService(reactionRepo, eventRepo)
	taskService := services.NewTaskService(taskRepo, membershipService)

	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService, uploads, logger)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	eventHandler := handlers.NewEventHandler(eventService, engagementService, uploads, logger)
	taskHandler := handlers.NewTaskHandler(taskService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register/member", authHandler.RegisterMember)
			auth.POST("/register/organization", authHandler.RegisterOrganization)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		orgs := api.Group("/organizations")
		{
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/:id", orgHandler.GetOrganization)
			orgs.Use(middleware.RequireAuth())
			orgs.POST("/:id/join", membershipHandler.RequestJoin)
			orgs.PUT("/:id", middleware.RequireRole(models.RoleOrganization), orgHandler.UpdateOrganization)
			orgs.POST("/:id/logo", middleware.RequireRole(models.RoleOrganization), orgHandler.UploadLogo)
			orgs.GET("/:id/members", middleware.RequireRole(models.RoleOrganization), membershipHandler.ListApproved)
			orgs.GET("/:id/members/pending", middleware.RequireRole(models.RoleOrganization), membershipHandler.ListPending)
			orgs.POST("/:id/tasks", middleware.RequireRole(models.RoleOrganization), taskHandler.CreateTask)
			orgs.GET("/:id/tasks", middleware.RequireRole(models.RoleOrganization), taskHandler.ListOrganizationTasks)
		}

		memberships := api.Group("/memberships")
		memberships.Use(middleware.RequireAuth())
		{
			memberships.POST("/:id/approve", middleware.RequireRole(models.RoleOrganization), membershipHandler.Approve)
			memberships.POST("/:id/reject", middleware.RequireRole(models.RoleOrganization), membershipHandler.Reject)
			memberships.DELETE("/:id", membershipHandler.Dismiss)
		}

		events := api.Group("/events")
		{
			events.GET("", middleware.ResolveSession(), eventHandler.ListEvents)
			events.GET("/:id", middleware.ResolveSession(), eventHandler.GetEvent)
			events.Use(middleware.RequireAuth())
			events.POST("", middleware.RequireRole(models.RoleOrganization), eventHandler.CreateEvent)
			events.PATCH("/:id", middleware.RequireRole(models.RoleOrganization), eventHandler.UpdateEvent)
			events.POST("/:id/images", middleware.RequireRole(models.RoleOrganization), eventHandler.UploadImage)
			events.POST("/:id/reaction", eventHandler.SetReaction)
		}

		me := api.Group("/me")
		me.Use(middleware.RequireAuth())
		{
			me.GET("/memberships", membershipHandler.ListMine)
			me.GET("/reactions", eventHandler.MyReactions)
			me.GET("/tasks", taskHandler.ListMyTasks)
		}
	}

	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
