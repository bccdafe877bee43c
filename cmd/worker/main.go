package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classtrack/internal/clock"
	"classtrack/internal/config"
	"classtrack/internal/queue"
	"classtrack/internal/store"
	"classtrack/internal/timetable"
	"classtrack/internal/users"
)

// streakMilestone is how often (in days) a streak earns a congratulation.
const streakMilestone = 7

// Worker consumes attendance events for milestone notifications and ticks a
// reminder scan for classes starting soon.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, store.KeyPrefix+"events")
	}

	slotRepo := timetable.NewRepository(db.Client)
	userRepo := users.NewRepository(db.Client)
	clk := clock.System{Loc: cfg.Location()}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	go remindLoop(ctx, clk, slotRepo, userRepo)

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeAttendanceMarked {
			continue
		}

		var evt queue.AttendanceMarked
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			log.Printf("bad %s payload: %v", msg.Type, err)
			continue
		}

		if evt.CurrentStreak > 0 && evt.CurrentStreak%streakMilestone == 0 {
			log.Printf("notify user %s: %d-day streak, %d points total", evt.UserID, evt.CurrentStreak, evt.Points)
		}
	}

	log.Println("worker stopped")
}

// remindLoop scans once a minute for classes starting within each owner's
// lead time and logs a reminder for them.
func remindLoop(ctx context.Context, clk clock.Clock, slots *timetable.Repository, userRepo *users.Repository) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := clk.Now()
		todays, err := slots.ListByDay(ctx, clock.WeekdayName(now))
		if err != nil {
			log.Printf("reminder scan failed: %v", err)
			continue
		}

		nowMin := clock.MinutesOfDay(now)
		for _, slot := range todays {
			start, err := clock.ParseHHMM(slot.Time)
			if err != nil {
				continue
			}
			owner, err := userRepo.GetByID(ctx, slot.UserID)
			if err != nil || owner == nil {
				continue
			}
			// Fire exactly at the lead-time boundary so each class is
			// reminded once per tick window, not once per minute.
			if start-nowMin == owner.NotificationLeadTime {
				log.Printf("remind user %s: %s at %s in %s starts in %d minutes",
					owner.ID, slot.Subject, slot.Time, slot.Location, owner.NotificationLeadTime)
			}
		}
	}
}
