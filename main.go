// File: droply/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"droply/config"
	"droply/cron"
	"droply/database"
	availabilityRepoPkg "droply/database/repository/availability"
	bookingRepoPkg "droply/database/repository/booking"
	procurementRepoPkg "droply/database/repository/procurement"
	slotRepoPkg "droply/database/repository/slot"
	userRepoPkg "droply/database/repository/user"
	"droply/handlers"
	"droply/routes"
	"droply/services/booking"
	"droply/services/intelligence"
	"droply/services/meeting"
	"droply/services/notification"
	"droply/services/procurement"
	"droply/services/schedule"
	"droply/services/user"
	"droply/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitContextCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	procurementRepo := procurementRepoPkg.NewMongoProcurementRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Logger: logger,
	}

	scheduleService := &schedule.DefaultScheduleService{
		Availability: availabilityRepo,
		Slots:        slotRepo,
		Bookings:     bookingRepo,
		Users:        userRepo,
		Cache:        schedule.NewRedisIntervalCache(utils.GetCacheClient(), time.Minute),
	}

	notificationService := &notification.FCMService{
		Users:  userRepo,
		Logger: logger,
	}

	bookingService := &booking.DefaultBookingService{
		Slots:    slotRepo,
		Bookings: bookingRepo,
		Payments: booking.NewStripeProcessor(config.AppConfig.BaseURL, logger),
		Notifier: notificationService,
		Logger:   logger,
	}

	clientGate := meeting.NewGate(time.Duration(config.AppConfig.EarlyJoinMinutes) * time.Minute)
	meetingService := &meeting.DefaultMeetingService{
		Bookings: bookingRepo,
		BaseURL:  config.AppConfig.BaseURL,
		Gate:     clientGate,
		HostGate: meeting.NewGate(meeting.HostAllowance),
		Logger:   logger,
	}

	// Procurement agents share a Gemini generator and a Redis-backed
	// conversation context.
	generator, err := intelligence.NewGeminiGenerator(context.Background(), config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize text generator: %v", err)
	}
	ctxStore := procurement.NewContextStore(utils.GetContextCacheClient(), 30*time.Minute)

	manager := procurement.NewManager(logger, 4, 64)
	manager.Register(&procurement.RFQAgent{
		Repo:     procurementRepo,
		Gen:      generator,
		Contexts: ctxStore,
		Logger:   logger,
	})
	manager.Register(&procurement.OrderAgent{
		Repo:   procurementRepo,
		Gen:    generator,
		Logger: logger,
	})
	manager.Register(&procurement.SupplierAgent{
		Repo:   procurementRepo,
		Logger: logger,
	})
	manager.Register(&procurement.ContractAgent{
		Repo:   procurementRepo,
		Gen:    generator,
		Logger: logger,
	})

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	manager.Start(workerCtx)

	// Background task queue: completion sweep, reminders, contract scans.
	cron.InitWorker(cron.Deps{
		Bookings:    bookingService,
		BookingRepo: bookingRepo,
		Notifier:    notificationService,
		Procurement: manager,
	})

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Users:               userService,
		Schedule:            scheduleService,
		Bookings:            bookingService,
		Meetings:            meetingService,
		Procurement:         manager,
		ProcurementRepo:     procurementRepo,
		StripeWebhookSecret: config.AppConfig.StripeWebhookSecret,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	stopWorkers()
	manager.Stop()

	logger.Sugar().Info("main: server stopped gracefully")
}
