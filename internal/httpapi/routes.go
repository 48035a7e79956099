package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/holdem-client/internal/hub"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	api := &API{hub: h, log: log.Named("httpapi")}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/sessions", api.ListSessions)

	r.Route("/sessions/{name}", func(r chi.Router) {
		r.Use(api.withSession)

		r.Get("/state", api.State)
		r.Post("/join", api.JoinTable)
		r.Post("/seat", api.TakeSeat)
		r.Post("/leave-seat", api.LeaveSeat)
		r.Post("/start", api.StartHand)
		r.Post("/action", api.Act)
		r.Post("/leave", api.LeaveTable)
	})
	return r
}
