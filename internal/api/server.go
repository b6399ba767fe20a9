// @title Hero HQ API
// @version 1.0
// @description Applications intake, sign-in and the admin dashboard.
// @host localhost:3000
// @BasePath /
// @schemes http
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <JWT>

package api

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SundayYogurt/herohq/config"
	"github.com/SundayYogurt/herohq/infra/queue"
	"github.com/SundayYogurt/herohq/internal/api/rest/handlers"
	"github.com/SundayYogurt/herohq/internal/api/rest/middleware"
	"github.com/SundayYogurt/herohq/internal/dashboard"
	"github.com/SundayYogurt/herohq/internal/database"
	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/helper"
	"github.com/SundayYogurt/herohq/internal/helper/utils"
	"github.com/SundayYogurt/herohq/internal/inspector"
	"github.com/SundayYogurt/herohq/internal/interfaces"
	"github.com/SundayYogurt/herohq/internal/listing"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/pubsub"
	"github.com/SundayYogurt/herohq/internal/repository"
	"github.com/SundayYogurt/herohq/internal/services"
	"github.com/SundayYogurt/herohq/internal/session"
	"github.com/SundayYogurt/herohq/internal/upload"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	sweepEvery      = time.Minute
	shutdownTimeout = 10 * time.Second
)

func StartServer(cfg config.Config) {
	log := logging.NewJSON(os.Stdout, cfg.Env != "prod")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fatal := func(msg string, err error) {
		log.Error(ctx, msg, "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	// ---------- DB ----------
	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		fatal("database connection error", err)
	}
	log.Info(ctx, "database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	if err := database.Migrate(ctx, db); err != nil {
		fatal("migration error", err)
	}
	log.Info(ctx, "migration successful")

	// ---------- Infra ----------
	store, err := OpenObjectStore(ctx, cfg)
	if err != nil {
		fatal("object store init error", err)
	}
	log.Info(ctx, "object store ready", "driver", cfg.StorageDriver)

	var publisher interfaces.ProducerHandler
	if producer := queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword, log); producer != nil {
		publisher = producer
		defer producer.Close()
		log.Info(ctx, "kafka producer ready", "broker", cfg.KafkaBroker, "topic", cfg.KafkaTopic)
	} else {
		log.Warn(ctx, "KAFKA_BROKER not set, application events stay in-process")
	}

	feed := pubsub.NewHub[dto.AdminEvent]()
	sessions := session.NewHub()

	uploads := upload.NewRegistry(cfg.UploadTTL, func() *upload.Controller {
		return upload.NewController(store, upload.Options{
			Folder:   cfg.UploadFolder,
			MaxBytes: cfg.UploadMaxBytes,
		}, log.With("component", "upload"))
	})
	go uploads.Run(ctx, sweepEvery)

	authHelper := helper.SetupAuth(cfg.AccessSecret, cfg.SessionTTL)

	var google helper.GoogleSignIn
	if cfg.GoogleEnabled() {
		google = helper.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	applicantRepo := repository.NewApplicantRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ---------- Service ----------
	userSvc := services.NewUserService(userRepo, authHelper, sessions, log)
	applicationSvc := services.NewApplicationService(applicantRepo, uploads, publisher, feed, log)

	boards := dashboard.NewStore(sessions, feed, func() *dashboard.State {
		list := listing.NewController(applicantRepo, cfg.AdminPageSize)
		return &dashboard.State{
			Listing:   list,
			Inspector: inspector.NewPanel(applicantRepo, list, store, feed, log.With("component", "inspector")),
		}
	})
	defer boards.Close()
	go sweepSessions(ctx, sessions, boards)

	// ---------- App ----------
	app := fiber.New(fiber.Config{
		AppName:               "herohq",
		BodyLimit:             utils.BodyLimit(cfg.UploadMaxBytes),
		ErrorHandler:          utils.ErrorHandler,
		DisableStartupMessage: cfg.Env == "prod",
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	RegisterSwagger(app)

	app.Use(middleware.AuthMiddleware(userSvc))
	guard := middleware.AdminGate(userSvc.GetRole, sessions, log.With("component", "gate"))

	// ---------- Handler ----------
	pages, err := handlers.NewPageHandler(guard, google != nil, cfg.UploadMaxBytes)
	if err != nil {
		fatal("page templates", err)
	}
	handlers.NewUploadHandler(uploads, log).SetupRoutes(app)
	handlers.NewApplicationHandler(applicationSvc, log).SetupRoutes(app)
	handlers.NewAuthHandler(userSvc, google, cfg.Env == "prod", log).SetupRoutes(app)
	handlers.NewAdminHandler(boards, feed, auditRepo, guard, log).SetupRoutes(app)
	pages.SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	go func() {
		<-ctx.Done()
		log.Info(context.Background(), "shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error(context.Background(), "shutdown", "error", err)
		}
	}()

	log.Info(ctx, "listening", "addr", cfg.ServerPort)
	if err := app.Listen(cfg.ServerPort); err != nil {
		fatal("listen", err)
	}
}

func sweepSessions(ctx context.Context, hub *session.Hub, boards *dashboard.Store) {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			hub.Sweep()
			boards.Sweep()
		}
	}
}
