package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/clock"
	"classtrack/internal/config"
	"classtrack/internal/extract"
	"classtrack/internal/genai"
	"classtrack/internal/homework"
	"classtrack/internal/httpapi"
	"classtrack/internal/ocrspace"
	"classtrack/internal/queue"
	"classtrack/internal/store"
	"classtrack/internal/timetable"
	"classtrack/internal/users"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, store.KeyPrefix+"events")
	}

	if cfg.OCRSpaceAPIKey == "" {
		log.Println("OCR not configured (OCR_SPACE_API_KEY not set); scanned uploads will fail")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("AI structuring not configured (GEMINI_API_KEY not set); timetable parsing will fail")
	}

	usersSvc := users.NewService(users.NewRepository(db.Client))
	slotRepo := timetable.NewRepository(db.Client)
	slotsSvc := timetable.NewService(slotRepo)
	recorder := attendance.NewService(attendance.NewRepository(db.Client), slotRepo)
	homeworkSvc := homework.NewService(homework.NewRepository(db.Client), slotRepo)

	ocr := ocrspace.New(cfg.OCRSpaceAPIKey, cfg.OCRSpaceURL)
	extractor := extract.New(ocr, cfg.PDFTextThreshold)
	structurer := genai.NewStructurer(genai.New(cfg.GeminiAPIKey, cfg.GeminiModel, ""))

	clk := clock.System{Loc: cfg.Location()}

	server := httpapi.New(cfg, clk, usersSvc, slotsSvc, recorder, homeworkSvc, extractor, structurer, q, db, redisClient)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ParseTimeout + 15*time.Second, // parse pipeline needs headroom
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}
