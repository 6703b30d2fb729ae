package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/qa-eval-api/internal/config"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	"github.com/yourusername/qa-eval-api/internal/handler"
	"github.com/yourusername/qa-eval-api/internal/middleware"
	"github.com/yourusername/qa-eval-api/internal/repository/memory"
	pgRepo "github.com/yourusername/qa-eval-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/qa-eval-api/internal/repository/redis"
	"github.com/yourusername/qa-eval-api/internal/service"
	ws "github.com/yourusername/qa-eval-api/internal/websocket"
	"github.com/yourusername/qa-eval-api/pkg/auth"
	"github.com/yourusername/qa-eval-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL (опционально: это
	// вторичное хранилище, авторитетно состояние в памяти)
	var remote repository.RemoteStore
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
		if err != nil {
			log.Printf("Failed to connect to database: %v", err)
			os.Exit(1)
		}
		if err := database.MigrateDB(db); err != nil {
			log.Printf("Failed to migrate database: %v", err)
			os.Exit(1)
		}
		remote = pgRepo.NewRemoteStore(db)
	}

	// Инициализируем подключение к Redis для снапшотов состояния
	var snapshotRepo repository.SnapshotRepository
	if cfg.Redis.Enabled {
		redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Println("Successfully connected to Redis")

		snapshotRepo, err = redisRepo.NewSnapshotRepo(redisClient)
		if err != nil {
			log.Printf("Failed to initialize SnapshotRepo: %v", err)
			os.Exit(1)
		}
	}

	// Инициализируем in-memory репозитории - источник истины
	gridRepo := memory.NewGridRepo()
	evaluationRepo := memory.NewEvaluationRepo()
	campaignRepo := memory.NewCampaignRepo()
	userRepo := memory.NewUserRepo()

	// Восстанавливаем состояние из снапшота
	snapshotService := service.NewSnapshotService(gridRepo, evaluationRepo, campaignRepo, snapshotRepo)
	if err := snapshotService.Load(); err != nil {
		log.Printf("Failed to load snapshot: %v", err)
		os.Exit(1)
	}

	// Если снапшота не было, пробуем поднять сетки из Postgres
	if remote != nil {
		if grids, err := gridRepo.List(); err == nil && len(grids) == 0 {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			fetched, err := remote.FetchGrids(ctx)
			cancel()
			if err != nil {
				log.Printf("Не удалось загрузить сетки из Postgres: %v", err)
			} else if len(fetched) > 0 {
				if err := gridRepo.Restore(fetched); err != nil {
					log.Printf("Не удалось восстановить сетки: %v", err)
				} else {
					log.Printf("Восстановлено %d сеток из Postgres", len(fetched))
				}
			}
		}
	}

	// JWT и аутентификация
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	if err := authService.SeedAdmin(cfg.Auth.AdminEmail, cfg.Auth.AdminName, cfg.Auth.AdminPassword); err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		os.Exit(1)
	}

	// Выбираем стратегию агрегации баллов
	var aggregator service.Aggregator
	switch cfg.Scoring.Aggregator {
	case "equal_weight":
		aggregator = service.EqualWeightAggregator{}
	default:
		aggregator = service.WeightedByMaxAggregator{}
	}

	// Предупреждения о низких баллах
	var alerts service.AlertService = &service.NoopAlertService{}
	alertBelow := 0
	if cfg.Alerts.Enabled {
		resendAlerts, err := service.NewResendAlertService(cfg.Alerts.ResendAPIKey, cfg.Alerts.FromEmail, cfg.Alerts.Recipients)
		if err != nil {
			log.Printf("Failed to initialize alert service: %v", err)
			os.Exit(1)
		}
		alerts = resendAlerts
		alertBelow = cfg.Alerts.ScoreBelow
	}

	// WebSocket хаб для live-ленты дашборда
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы
	gridService := service.NewGridService(gridRepo, remote, snapshotService)
	evaluationService := service.NewEvaluationService(
		gridRepo, evaluationRepo, campaignRepo,
		remote, snapshotService,
		aggregator, hub, alerts, alertBelow,
	)
	campaignService := service.NewCampaignService(campaignRepo, evaluationRepo, remote, snapshotService)
	statsService := service.NewStatsService(gridRepo, evaluationRepo, campaignRepo, cfg.Alerts.ScoreBelow)

	// Обработчики
	authHandler := handler.NewAuthHandler(authService)
	gridHandler := handler.NewGridHandler(gridService)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService)
	campaignHandler := handler.NewCampaignHandler(campaignService, evaluationService)
	statsHandler := handler.NewStatsHandler(statsService)
	wsHandler := handler.NewWSHandler(hub)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Роутер
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		// Аутентификация
		api.POST("/auth/login", authHandler.Login)

		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.GetMe)
		}

		// Оценочные сетки
		grids := api.Group("/grids")
		grids.Use(authMiddleware.RequireAuth())
		{
			grids.GET("", gridHandler.ListGrids)

			adminGrids := grids.Group("")
			adminGrids.Use(authMiddleware.AdminOnly())
			{
				adminGrids.POST("", gridHandler.CreateGrid)
			}

			gridWithID := grids.Group("/:id")
			gridWithID.Use(middleware.GridID())
			{
				gridWithID.GET("", gridHandler.GetGrid)
				gridWithID.GET("/evaluations", evaluationHandler.ListEvaluationsByGrid)
				gridWithID.POST("/evaluations", evaluationHandler.SubmitEvaluation)

				adminGridWithID := gridWithID.Group("")
				adminGridWithID.Use(authMiddleware.AdminOnly())
				{
					adminGridWithID.PUT("", gridHandler.UpdateGrid)
					adminGridWithID.DELETE("", gridHandler.DeleteGrid)
					adminGridWithID.POST("/questions", gridHandler.AddQuestion)
					adminGridWithID.PUT("/questions/order", gridHandler.ReorderQuestions)

					questionWithID := adminGridWithID.Group("/questions/:question_id")
					questionWithID.Use(middleware.QuestionID())
					{
						questionWithID.PUT("", gridHandler.UpdateQuestion)
						questionWithID.DELETE("", gridHandler.DeleteQuestion)
					}
				}
			}
		}

		// Оценки
		evaluations := api.Group("/evaluations")
		evaluations.Use(authMiddleware.RequireAuth())
		{
			evaluations.GET("", evaluationHandler.ListEvaluations)

			evaluationWithID := evaluations.Group("/:id")
			evaluationWithID.Use(middleware.EvaluationID())
			{
				evaluationWithID.GET("", evaluationHandler.GetEvaluation)
				evaluationWithID.POST("/review", evaluationHandler.MarkReviewed)
			}
		}

		// Кампании
		campaigns := api.Group("/campaigns")
		campaigns.Use(authMiddleware.RequireAuth())
		{
			campaigns.GET("", campaignHandler.ListCampaigns)

			adminCampaigns := campaigns.Group("")
			adminCampaigns.Use(authMiddleware.AdminOnly())
			{
				adminCampaigns.POST("", campaignHandler.CreateCampaign)
			}

			campaignWithID := campaigns.Group("/:id")
			campaignWithID.Use(middleware.CampaignID())
			{
				campaignWithID.GET("", campaignHandler.GetCampaign)
				campaignWithID.GET("/stats", campaignHandler.GetCampaignStats)
				campaignWithID.GET("/evaluations/export", campaignHandler.ExportEvaluations)

				adminCampaignWithID := campaignWithID.Group("")
				adminCampaignWithID.Use(authMiddleware.AdminOnly())
				{
					adminCampaignWithID.PUT("", campaignHandler.UpdateCampaign)
					adminCampaignWithID.DELETE("", campaignHandler.DeleteCampaign)
				}
			}
		}

		// Дашборд
		api.GET("/dashboard/stats", authMiddleware.RequireAuth(), statsHandler.GetDashboardStats)
	}

	// WebSocket маршрут
	router.GET("/ws", wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Финальный снапшот перед остановкой
	if err := snapshotService.Save(); err != nil {
		log.Printf("Failed to save final snapshot: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
