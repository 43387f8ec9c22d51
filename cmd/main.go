package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizgate/config"
	"github.com/lshigami/quizgate/database"
	_ "github.com/lshigami/quizgate/docs" // Swagger docs
	adminctrl "github.com/lshigami/quizgate/internal/controller/admin"
	candidatectrl "github.com/lshigami/quizgate/internal/controller/candidate"
	"github.com/lshigami/quizgate/internal/cache"
	"github.com/lshigami/quizgate/internal/logger"
	"github.com/lshigami/quizgate/internal/middleware"
	"github.com/lshigami/quizgate/internal/model"
	"github.com/lshigami/quizgate/internal/notify"
	"github.com/lshigami/quizgate/internal/repository"
	"github.com/lshigami/quizgate/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Quiz Access API
// @version 1.0
// @description Timed multiple-choice tests delivered through single-use invitation links.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,
			cache.NewQuestionCache,
			notify.NewNotifier,
			middleware.NewAdminAuth,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewAccessTokenRepository,
			repository.NewTestAttemptRepository,
			repository.NewResponseRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewTestService,
			service.NewQuestionService,
			service.NewAccessTokenService,
			service.NewResponseService,
			service.NewInvitationService,
			service.NewCandidateService,
			service.NewQuestionGenerator,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminTestController,
			adminctrl.NewAdminAccessController,
			candidatectrl.NewCandidateController,
		),

		fx.Invoke(func(cfg *config.Config) {
			log.Info().Str("level", logger.ApplyLevel(cfg.LogLevel).String()).Msg("Log level configured")
		}),
		// Migrations run before the server hook is registered.
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBase},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	return r
}

// RegisterRoutes mounts every API route on the engine.
func RegisterRoutes(
	router *gin.Engine,
	auth *middleware.AdminAuth,
	adminTestCtrl *adminctrl.AdminTestController,
	adminAccessCtrl *adminctrl.AdminAccessController,
	candidateCtrl *candidatectrl.CandidateController,
) {
	api := router.Group("/api/v1")

	adminAPIGroup := api.Group("/admin", auth.RequireAdmin())
	{
		tests := adminAPIGroup.Group("/tests")
		tests.POST("", adminTestCtrl.CreateTest)
		tests.GET("", adminTestCtrl.ListTests)
		tests.GET("/:test_id", adminTestCtrl.GetTest)
		tests.PUT("/:test_id", adminTestCtrl.UpdateTest)
		tests.DELETE("/:test_id", adminTestCtrl.DeleteTest)
		tests.PATCH("/:test_id/toggle-status", adminTestCtrl.ToggleTestStatus)
		tests.POST("/:test_id/questions", adminTestCtrl.AddQuestion)
		tests.GET("/:test_id/questions", adminTestCtrl.ListQuestions)
		tests.POST("/:test_id/tokens", adminAccessCtrl.IssueToken)
		tests.GET("/:test_id/tokens", adminAccessCtrl.ListTokens)
		tests.GET("/:test_id/attempts", adminAccessCtrl.ListAttempts)

		questions := adminAPIGroup.Group("/questions")
		questions.POST("/generate", adminTestCtrl.GenerateQuestions)
		questions.GET("/:question_id", adminTestCtrl.GetQuestion)
		questions.DELETE("/:question_id", adminTestCtrl.DeleteQuestion)

		adminAPIGroup.GET("/tokens/:token", adminAccessCtrl.ResolveToken)
		adminAPIGroup.POST("/invitations", adminAccessCtrl.SendInvitation)
		adminAPIGroup.POST("/invitations/bulk", adminAccessCtrl.SendBulkInvitations)
	}

	// Candidate routes are gated by the invitation token. Once redeemed it
	// keeps addressing the attempt it started.
	invitation := api.Group("/test-invitation/:token")
	invitation.GET("", candidateCtrl.OpenInvitation)
	invitation.POST("/attempt", candidateCtrl.StartAttempt)
	invitation.GET("/attempt", candidateCtrl.GetAttemptResult)
	invitation.POST("/attempt/responses", candidateCtrl.RecordResponse)
	invitation.POST("/attempt/submit", candidateCtrl.SubmitAttempt)
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	auth *middleware.AdminAuth,
	adminTestCtrl *adminctrl.AdminTestController,
	adminAccessCtrl *adminctrl.AdminAccessController,
	candidateCtrl *candidatectrl.CandidateController,
) {
	RegisterRoutes(router, auth, adminTestCtrl, adminAccessCtrl, candidateCtrl)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz access API starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := model.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
