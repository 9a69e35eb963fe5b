package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"droply/config"
	bookingRepo "droply/database/repository/booking"
	bookingSvc "droply/services/booking"
	"droply/services/notification"
	procurementSvc "droply/services/procurement"
)

// Task types handled by the background worker.
const (
	TypeBookingSweep    = "booking:sweep"
	TypeSessionReminder = "reminder:send"
	TypeContractScan    = "contract:scan"
)

// reminderLead is how far before the session start the reminder fires.
const reminderLead = 15 * time.Minute

type reminderPayload struct {
	BookingID string `json:"bookingId"`
}

// Deps carries everything the worker needs from the service layer.
type Deps struct {
	Bookings    bookingSvc.BookingService
	BookingRepo bookingRepo.Repository
	Notifier    notification.Service
	Procurement *procurementSvc.Manager
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitWorker runs the async worker and its schedule in the background.
func InitWorker(deps Deps) {
	opts := redisOpts()
	client := asynq.NewClient(opts)

	srv := asynq.NewServer(
		opts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingSweep, handleBookingSweep(deps, client))
	mux.HandleFunc(TypeSessionReminder, handleSessionReminder(deps))
	mux.HandleFunc(TypeContractScan, handleContractScan(deps))

	scheduler := asynq.NewScheduler(opts, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register("@every 5m", asynq.NewTask(TypeBookingSweep, nil)); err != nil {
		log.Printf("[Worker] ❌ Failed to register booking sweep: %v", err)
	}
	if _, err := scheduler.Register("@every 24h", asynq.NewTask(TypeContractScan, nil)); err != nil {
		log.Printf("[Worker] ❌ Failed to register contract scan: %v", err)
	}

	// Start Redis health monitor
	go monitorRedisConnection()

	go func() {
		log.Println("[Worker] 🚀 Starting scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Printf("[Worker] ❌ Scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[Worker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleBookingSweep completes past sessions and queues reminders for the
// ones starting soon. Reminder tasks carry the booking id as their task id,
// so a booking picked up by consecutive sweeps is only reminded once.
func handleBookingSweep(deps Deps, client *asynq.Client) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		if _, err := deps.Bookings.CompleteExpired(ctx); err != nil {
			log.Printf("[Sweep] ❌ Failed to complete expired bookings: %v", err)
			return err
		}

		now := time.Now().UTC()
		upcoming, err := deps.BookingRepo.ConfirmedStartingBetween(ctx, now, now.Add(reminderLead+5*time.Minute))
		if err != nil {
			log.Printf("[Sweep] ❌ Failed to load upcoming bookings: %v", err)
			return err
		}
		for _, b := range upcoming {
			payload, _ := json.Marshal(reminderPayload{BookingID: b.ID})
			_, err := client.EnqueueContext(ctx,
				asynq.NewTask(TypeSessionReminder, payload),
				asynq.TaskID("reminder:"+b.ID),
				asynq.ProcessAt(b.Start.Add(-reminderLead)),
			)
			if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
				log.Printf("[Sweep] ❌ Failed to queue reminder for %s: %v", b.ID, err)
			}
		}
		return nil
	}
}

func handleSessionReminder(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p reminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[Reminder] 🔴 Invalid payload: %v", err)
			return err
		}

		b, err := deps.Bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			if errors.Is(err, bookingSvc.ErrBookingNotFound) {
				return nil // booking vanished, nothing to remind
			}
			return err
		}
		if !b.Status.Terminal() {
			if err := deps.Notifier.SessionReminder(ctx, b); err != nil {
				log.Printf("[Reminder] ❌ Failed to send reminder for %s: %v", b.ID, err)
				return err
			}
		}
		return nil
	}
}

func handleContractScan(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		_, err := deps.Procurement.Process(ctx, procurementSvc.Event{
			Type: procurementSvc.EventContractExpiry,
		})
		if err != nil {
			log.Printf("[ContractScan] ❌ Scan failed: %v", err)
		}
		return err
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Worker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
