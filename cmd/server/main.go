package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"citas-admin/internal/config"
	"citas-admin/internal/handler"
	"citas-admin/internal/middleware"
	"citas-admin/internal/notify"
	"citas-admin/internal/remote"
	"citas-admin/internal/router"
	"citas-admin/internal/session"
)

func main() {
	cfg := config.Load()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; sessions will not survive restarts and rate limiting is off")
	}

	// One gateway, one loader, shared by both API clients. The token source
	// resolves the calling session's credential per request.
	gateway := remote.NewHTTPGateway(nil)
	loader := remote.NewLoader(gateway)
	tokens := remote.TokenFunc(session.ContextToken)
	citasAPI := remote.NewCitaAPI(loader, cfg.FormsAPI, tokens)
	usersAPI := remote.NewUserAPI(loader, cfg.UsersAPI, cfg.Hostname, tokens)

	bridge, err := notify.Connect(cfg.AMQPURL)
	if err != nil {
		log.Printf("notify: broker unreachable, running without live updates: %v", err)
	}
	hub := notify.NewHub()
	sub, err := bridge.Subscribe(hub.Broadcast)
	if err != nil {
		log.Printf("notify: subscribe failed: %v", err)
	}

	sessions := session.NewManager(rdb, cfg.SessionTTL)
	metrics := middleware.NewMetrics("citas_admin")

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Sessions:  sessions,
		Auth:      handler.NewAuthHandler(usersAPI),
		Citas:     handler.NewCitaHandler(citasAPI, bridge),
		Users:     handler.NewUserHandler(usersAPI, bridge),
		Hub:       hub,
		Metrics:   metrics,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}

	// Drop the bus subscription and every websocket before the broker
	// connection goes away.
	_ = bridge.Unsubscribe(sub)
	hub.Close()
	_ = bridge.Close()
	log.Printf("shutdown complete")
}
