package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ansh-Mishra04/project/config"
	repository "github.com/Ansh-Mishra04/project/internal/database/postgres"
	sessionstore "github.com/Ansh-Mishra04/project/internal/database/redis"
	"github.com/Ansh-Mishra04/project/internal/service"
	"github.com/Ansh-Mishra04/project/internal/transport"
	"github.com/Ansh-Mishra04/project/internal/worker"

	"github.com/Ansh-Mishra04/project/pkg/checkout"
	"github.com/Ansh-Mishra04/project/pkg/postgres"
	"github.com/Ansh-Mishra04/project/pkg/redis"
	"github.com/Ansh-Mishra04/project/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// secretsFromEnv overrides file-based secrets with environment values when present
func secretsFromEnv(cfg *config.Config) {
	cfg.Database.Password = config.GetEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Redis.Password = config.GetEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Razorpay.KeyID = config.GetEnv("RAZORPAY_KEY_ID", cfg.Razorpay.KeyID)
	cfg.Razorpay.KeySecret = config.GetEnv("RAZORPAY_KEY_SECRET", cfg.Razorpay.KeySecret)
	cfg.Telegram.BotToken = config.GetEnv("TELEGRAM_BOT_TOKEN", cfg.Telegram.BotToken)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Secrets come from the environment when present
	secretsFromEnv(cfg)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)

	// Initialize checkout session store
	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()
	sessions := sessionstore.NewSessionStore(redisClient)

	// Initialize Telegram bot
	var telegramBot *telegram.Bot
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		telegramBot = telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		logrus.Info("Telegram bot initialized")
	} else {
		logrus.Warn("Telegram bot token not provided, support alerts disabled")
	}

	// Initialize payment gateway
	if cfg.Razorpay.KeyID == "" || cfg.Razorpay.KeySecret == "" {
		logrus.Warn("Razorpay keys not provided, checkout will fail until configured")
	}
	gateway := checkout.NewRazorpayGateway(&cfg.Razorpay)

	// Initialize services
	eventService := service.NewEventService(eventRepo, registrationRepo)
	registrationService := service.NewRegistrationService(
		eventService, registrationRepo, sessions, gateway, telegramBot, cfg.App.Currency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the event catalog once at startup. A failure is reported and
	// served as such until an operator asks for a reload.
	if err := eventService.LoadEvents(ctx); err != nil {
		logrus.Errorf("Events not loaded at startup: %v", err)
	} else {
		logrus.Infof("Event catalog loaded: %d events", eventService.SnapshotInfo().Events)
	}

	// Initialize reconcile worker
	reconcileInterval := time.Duration(cfg.Worker.ReconcileInterval) * time.Minute
	if reconcileInterval <= 0 {
		reconcileInterval = 30 * time.Minute
	}
	reconcileWorker := worker.NewReconcileWorker(registrationService, reconcileInterval)
	go reconcileWorker.Start(ctx)
	logrus.Info("Reconcile worker started")

	// Initialize handlers
	eventHandler := transport.NewEventHandler(eventService)
	registrationHandler := transport.NewRegistrationHandler(registrationService)

	// Setup HTTP server
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(eventHandler, registrationHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
