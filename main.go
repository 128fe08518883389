package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/vezba/fitness-backend/config"
	"github.com/vezba/fitness-backend/internal/handler"
	"github.com/vezba/fitness-backend/internal/middleware"
	"github.com/vezba/fitness-backend/internal/notify"
	"github.com/vezba/fitness-backend/internal/repository"
	"github.com/vezba/fitness-backend/internal/service"
	"github.com/vezba/fitness-backend/pkg/cache"
	"github.com/vezba/fitness-backend/pkg/database"
	"github.com/vezba/fitness-backend/pkg/mailer"
	"github.com/vezba/fitness-backend/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ: services publish notifications, the worker delivers them
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	smtp := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPassword)
	notify.NewWorker(smtp, publisher).Start(msgs)

	var termCache cache.TermCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		termCache = cache.NewRedisTermCache(cfg.RedisAddr)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	termRepo := repository.NewTermRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)
	programRepo := repository.NewProgramRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)

	// Hourly sweep of stale OTP challenges; consumed rows age out with them.
	go func() {
		for range time.Tick(time.Hour) {
			if err := challengeRepo.DeleteExpired(context.Background(), time.Now().Add(-24*time.Hour)); err != nil {
				log.Printf("[Auth] challenge cleanup failed: %v", err)
			}
		}
	}()

	// Services
	notifier := notify.NewAMQPNotifier(publisher)
	auditor := service.NewAuditor(auditRepo)
	jwtSecret := []byte(cfg.JWTSecret)

	bookingSvc := service.NewBookingService(termRepo, enrollRepo, userRepo, notifier, auditor, termCache)
	scheduleSvc := service.NewScheduleService(termRepo, enrollRepo, userRepo, programRepo, notifier, auditor, termCache)
	authSvc := service.NewAuthService(userRepo, challengeRepo, notifier, auditor, jwtSecret)
	programSvc := service.NewProgramService(programRepo, termRepo)
	billingSvc := service.NewBillingService(userRepo, enrollRepo, invoiceRepo, notifier, auditor, cfg.SessionPrice)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "fitness-backend"})
	})

	handler.NewAuthHandler(authSvc, jwtSecret).RegisterRoutes(e)
	handler.NewBookingHandler(bookingSvc, billingSvc, jwtSecret).RegisterRoutes(e)
	handler.NewScheduleHandler(scheduleSvc, jwtSecret).RegisterRoutes(e)
	handler.NewProgramHandler(programSvc, jwtSecret).RegisterRoutes(e)
	handler.NewAdminHandler(userRepo, auditRepo, billingSvc, auditor, jwtSecret).RegisterRoutes(e)

	log.Printf("Fitness backend starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
