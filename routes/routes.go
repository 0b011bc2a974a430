package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/worldcup/docs"
	"github.com/Dosada05/worldcup/handlers"
	"github.com/Dosada05/worldcup/middleware"
)

type Handlers struct {
	Worldcups  *handlers.WorldcupHandler
	Votes      *handlers.VoteHandler
	Statistics *handlers.StatisticsHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, allowedOrigins []string, voteLimiter *middleware.RateLimiter) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Websocket живёт вне таймаута API
	router.Get("/ws/worldcups/{worldcupID}", h.WebSocket.ServeWs)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(15 * time.Second))

		r.Route("/worldcups/{worldcupID}", func(r chi.Router) {
			r.Get("/", h.Worldcups.GetWorldcup)
			r.Post("/sessions", h.Worldcups.CreateSession)

			r.Get("/statistics", h.Statistics.GetStatistics)

			r.Group(func(r chi.Router) {
				if voteLimiter != nil {
					r.Use(voteLimiter.Handler)
				}
				r.Post("/votes", h.Votes.SubmitVote)
				r.Post("/votes/bulk", h.Votes.SubmitBulk)
				r.Post("/votes/beacon", h.Votes.SubmitBeacon)
				r.Post("/statistics", h.Statistics.RecordResult)
			})
		})
	})
}
