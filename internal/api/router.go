package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Cheertaboi/coupon-ledger/internal/api/handlers"
	"github.com/Cheertaboi/coupon-ledger/internal/api/middleware"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Ledger       handlers.LedgerService
	Guestbook    handlers.GuestbookService
	DB           Pinger
	Logger       *zap.Logger
	MaxBodyBytes int64
	// StaticDir, when set, is served at / for the single-page client.
	StaticDir string
}

// NewRouter builds the HTTP router for the coupon ledger
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	coupons := handlers.NewCouponHandler(opts.Ledger, opts.Logger, opts.MaxBodyBytes)
	guestbook := handlers.NewGuestbookHandler(opts.Guestbook, opts.Logger, opts.MaxBodyBytes)

	r.Route("/api", func(r chi.Router) {
		r.Route("/coupons/issued", func(r chi.Router) {
			r.Get("/", coupons.ListIssued)
			r.Post("/", coupons.CreateIssued)
			r.Get("/{id}", coupons.GetIssued)
			r.Put("/{id}", coupons.UpdateIssued)
			r.Delete("/{id}", coupons.DeleteIssued)
			r.Get("/{id}/completed", coupons.ListCompletedForIssued)
		})

		r.Route("/coupons/completed", func(r chi.Router) {
			r.Get("/", coupons.ListCompleted)
			r.Post("/", coupons.CreateCompleted)
			r.Get("/{id}", coupons.GetCompleted)
			r.Put("/{id}", coupons.UpdateCompleted)
			r.Delete("/{id}", coupons.DeleteCompleted)
		})

		r.Route("/guestbook", func(r chi.Router) {
			r.Get("/", guestbook.List)
			r.Post("/", guestbook.Append)
			r.Delete("/all", guestbook.DeleteAll)
			r.Delete("/test", guestbook.DeleteTestEntries)
		})
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if opts.DB != nil {
			if err := opts.DB.PingContext(ctx); err != nil {
				opts.Logger.Warn("health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return r
}
