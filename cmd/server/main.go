package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"     // .env loading for local development
	"github.com/labstack/echo/v4"  // Echo web framework

	"github.com/iliyamo/talk-checkin/internal/bridge"
	"github.com/iliyamo/talk-checkin/internal/config"
	"github.com/iliyamo/talk-checkin/internal/database"
	"github.com/iliyamo/talk-checkin/internal/handler"
	"github.com/iliyamo/talk-checkin/internal/middleware"
	"github.com/iliyamo/talk-checkin/internal/model"
	"github.com/iliyamo/talk-checkin/internal/queue"
	"github.com/iliyamo/talk-checkin/internal/repository"
	"github.com/iliyamo/talk-checkin/internal/router"
	queue_publisher "github.com/iliyamo/talk-checkin/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	attendees := repository.NewAttendeeRepo(db)
	sessions := repository.NewSessionRepo(db)
	checkins := repository.NewCheckinRepo(db)
	certificates := repository.NewCertificateRepo(db)

	// The bridge shares the exact same ledger write as the manual API,
	// so the unique key in MySQL is the single arbiter of duplicates.
	pipe := &bridge.Pipeline{
		Attendees: attendees,
		Sessions:  sessions,
		Checkins:  checkins,
		OnCheckin: func(rec *model.CheckinRecord, att *model.Attendee, s *model.Session) {
			ev := queue.CheckinConfirmedEvent{
				AttendeeRA:   rec.AttendeeRA,
				AttendeeName: att.Name,
				SessionID:    rec.SessionID,
				SessionTitle: s.Title,
				Source:       "card_scan",
				CheckedInAt:  rec.CheckedInAt.UTC().Format(time.RFC3339),
			}
			go func() { _ = queue_publisher.PublishCheckinConfirmed(context.Background(), ev) }()
		},
	}
	b := bridge.New(config.LoadBridgeConfig(), pipe)
	go b.Run(ctx)
	go queue.StartCheckinConsumer(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient()))
	router.RegisterRoutes(e)
	router.RegisterAPI(e,
		handler.NewAttendeeHandler(attendees),
		handler.NewSessionHandler(sessions),
		handler.NewCheckinHandler(checkins, attendees, sessions),
		handler.NewCertificateHandler(certificates, sessions, nil),
		handler.NewBridgeHandler(b),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
