package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func NewRouter(hSessions *SessionHandler, adminToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	RegisterRoutes(r, hSessions, adminToken)
	return r
}

func RegisterRoutes(r chi.Router, hSessions *SessionHandler, adminToken string) {
	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	// без токена админские ручки не поднимаем
	if adminToken == "" {
		return
	}

	// --- protected ---
	r.Route("/sessions", func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(60, time.Minute),
			AuthMiddleware(adminToken),
		)

		pr.Get("/{telegram_id}", hSessions.Get)
		pr.Delete("/{telegram_id}", hSessions.Reset)
	})
}
