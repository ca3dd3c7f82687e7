package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	config "invoiceflow-backend/config"
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/token"
	"invoiceflow-backend/utils"

	// Repositories
	audit_repositories "invoiceflow-backend/audit/repositories"
	document_repositories "invoiceflow-backend/documents/repositories"
	invoice_repositories "invoiceflow-backend/invoices/repositories"
	notification_repositories "invoiceflow-backend/notifications/repositories"
	ratecard_repositories "invoiceflow-backend/ratecards/repositories"
	users_repositories "invoiceflow-backend/users/repositories"

	// Services
	document_services "invoiceflow-backend/documents/services"
	"invoiceflow-backend/documents/validators"
	invoice_services "invoiceflow-backend/invoices/services"
	notification_services "invoiceflow-backend/notifications/services"
	ratecard_services "invoiceflow-backend/ratecards/services"

	// Routes
	document_routes "invoiceflow-backend/documents/routes"
	invoice_routes "invoiceflow-backend/invoices/routes"
	notification_routes "invoiceflow-backend/notifications/routes"
	ratecard_routes "invoiceflow-backend/ratecards/routes"
	user_routes "invoiceflow-backend/users/routes"

	// bleve
	bleveRepositories "invoiceflow-backend/bleve/repositories"
	bleveServices "invoiceflow-backend/bleve/services"
	"invoiceflow-backend/internal/bootstrap"

	// WebSocket
	"invoiceflow-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Zap logger
	config.InitLogger(cfg.LogDir, cfg.LogLevel)
	defer config.Logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database and redis
	db := config.ConfigureDatabase(cfg)
	redisClient := config.InitRedisServer(ctx, cfg)

	tokenMaker, err := token.NewPasetoMaker(cfg.TokenSymmetricKey)
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	fileStorage, err := newFileStorage(ctx, cfg)
	if err != nil {
		config.Logger.Fatal("Cannot initialize file storage", zap.Error(err))
	}

	// Repositories
	userRepo := users_repositories.NewUserRepository(db)
	documentRepo := document_repositories.NewDocumentRepository(db)
	invoiceRepo := invoice_repositories.NewInvoiceRepository(db)
	rateCardRepo := ratecard_repositories.NewRateCardRepository(db)
	auditRepo := audit_repositories.NewAuditRepository(db)
	notificationRepo := notification_repositories.NewNotificationRepository(db)

	bleveIndexingService := bleveServices.NewIndexingService(config.Logger, cfg.BleveIndexPath)
	defer bleveIndexingService.Close()
	_, bleveInterfaceRepo := bleveRepositories.NewBleveRepository(bleveIndexingService)

	// ------ Background notification delivery ------
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	notificationService := notification_services.NewNotificationService(notificationRepo, notification_services.NewSMTPMailer(cfg))
	dispatcher := notification_services.NewDispatcher(asynqClient)

	asynqServer := asynq.NewServer(asynqRedisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{notification_services.NotificationQueue: 1},
		Logger:      config.Logger.Sugar(),
	})
	if err := asynqServer.Start(notification_services.NewWorkerMux(notificationService)); err != nil {
		config.Logger.Fatal("Failed to start notification worker", zap.Error(err))
	}
	defer asynqServer.Shutdown()

	// ------ WebSocket Hub Initialization for upload and workflow events ------
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Services
	workflowService := invoice_services.NewWorkflowService(invoiceRepo, userRepo, dispatcher, wsHub)
	invoiceService := invoice_services.NewInvoiceService(invoiceRepo, auditRepo)

	crossChecker := ratecard_services.NewCrossChecker(rateCardRepo, utils.SystemClock{})
	timesheetValidator := validators.NewTimesheetValidator(utils.SystemClock{}, crossChecker)
	rateCardService := ratecard_services.NewRateCardService(rateCardRepo, documentRepo, utils.SystemClock{})

	documentService := document_services.NewDocumentService(documentRepo, fileStorage, timesheetValidator, cfg.MaxUploadBytes)
	documentService.Index = bleveInterfaceRepo
	documentService.Events = wsHub
	documentService.Workflow = workflowService

	reminderService := notification_services.NewReminderService(invoiceRepo, dispatcher, cfg.BaseFrontendURL)
	scheduler, err := notification_services.StartReminderScheduler(cfg.ReminderSchedule, reminderService)
	if err != nil {
		config.Logger.Fatal("Failed to start reminder scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	// Re-Index all documents
	go bootstrap.IndexBleveData(ctx, documentRepo, bleveInterfaceRepo)

	// Create an instance of AppContext
	appContext := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
		Users:       userRepo,
		CronSecret:  cfg.CronSecret,
	}

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxUploadBytes) + 1<<20,
	})

	// Apply CORS middleware from middleware package
	middleware.InitCors(app, cfg.BaseFrontendURL)

	// Routes
	user_routes.InitRoutes(app, appContext, userRepo)
	document_routes.DocumentRouterInit(app, appContext, documentService)
	invoice_routes.InvoiceRouterInit(app, appContext, workflowService, invoiceService)
	ratecard_routes.RateCardRouterInit(app, appContext, rateCardService)
	notification_routes.NotificationRouterInit(app, appContext, notificationService, reminderService, invoiceRepo)

	// ------ WebSocket Route for Real-time Communication ------
	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker)
	app.Get("/ws", wsHandler.HandleWebSocket)
	config.Logger.Info("WebSocket endpoint registered at /ws")

	go func() {
		<-ctx.Done()
		config.Logger.Info("Shutting down server")
		if err := app.Shutdown(); err != nil {
			config.Logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	// Start the application
	config.Logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		config.Logger.Fatal("Server failed", zap.String("port", cfg.Port), zap.Error(err))
	}
}

func newFileStorage(ctx context.Context, cfg *config.AppConfig) (utils.FileStorage, error) {
	switch cfg.StorageDriver {
	case "r2", "s3":
		return utils.NewR2FileStorage(ctx, cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2Bucket)
	default:
		return utils.NewLocalFileStorage(cfg.UploadPath), nil
	}
}
