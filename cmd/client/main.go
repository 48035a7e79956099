package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/holdem-client/internal/config"
	"github.com/DoyleJ11/holdem-client/internal/httpapi"
	"github.com/DoyleJ11/holdem-client/internal/hub"
	"github.com/DoyleJ11/holdem-client/internal/logging"
	"github.com/DoyleJ11/holdem-client/internal/prefs"
	"github.com/DoyleJ11/holdem-client/internal/router"
	"github.com/DoyleJ11/holdem-client/internal/session"
	"github.com/DoyleJ11/holdem-client/internal/view"
	"github.com/DoyleJ11/holdem-client/internal/ws"
)

const fallbackName = "Player"

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	names := displayNames(ctx, cfg, log)

	factory := func(ctx context.Context, name string) *session.Session {
		client := ws.NewClient(cfg.WSURL, log.With(zap.String("session", name)))
		errs := router.ErrorSinkFunc(func(code, message string) {
			log.Warn("authority error", zap.String("session", name), zap.String("code", code), zap.String("message", message))
		})

		sess := session.New(ctx, session.Config{
			Name:        name,
			TableID:     cfg.DefaultTableID,
			DisplayName: name,
			Token:       cfg.AuthToken,
		}, client, errs, log)

		client.OnMessage(sess.Deliver)
		client.OnOpen(sess.Opened)
		client.OnClose(sess.Closed)
		go func() {
			if err := client.Run(ctx); err != nil {
				log.Error("connection ended", zap.String("session", name), zap.Error(err))
			}
		}()
		return sess
	}

	h := hub.NewHub(ctx, factory)
	for i, name := range names {
		sess := h.Ensure(name)
		if sess == nil {
			return
		}
		if i == 0 && cfg.TerminalView {
			term := view.NewTerminal(os.Stdout, true)
			if _, err := sess.Subscribe(term.Draw); err != nil {
				log.Warn("terminal view not attached", zap.Error(err))
			}
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.SetupRoutes(h, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.Strings("sessions", names))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("http server", zap.Error(err))
	}
}

// displayNames prefers DISPLAY_NAMES, then the name saved last run. The
// first name is saved for next time.
func displayNames(ctx context.Context, cfg config.Config, log *zap.Logger) []string {
	names := cfg.DisplayNames

	p, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		log.Warn("prefs unavailable", zap.String("path", cfg.PrefsPath), zap.Error(err))
		if len(names) == 0 {
			names = []string{fallbackName}
		}
		return names
	}
	defer p.Close()

	if len(names) == 0 {
		saved, err := p.DisplayName(ctx)
		if err != nil {
			log.Warn("load saved name", zap.Error(err))
		}
		if saved == "" {
			saved = fallbackName
		}
		names = []string{saved}
	}
	if err := p.SetDisplayName(ctx, names[0]); err != nil {
		log.Warn("save display name", zap.Error(err))
	}
	return names
}
