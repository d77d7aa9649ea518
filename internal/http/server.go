// Package http exposes the reconciliation engine as a JSON API. The
// browser client is a separate repository; everything here speaks the
// shapes its forms and tables consume.
package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"shelterstock/internal/core"
	"shelterstock/internal/middleware/ratelimit"
	"shelterstock/internal/middleware/trace"
	"shelterstock/internal/records"
)

// Recorder accepts validated submissions for the append-only record log.
type Recorder interface {
	RegisterDonation(ctx context.Context, d core.Donation) (int64, error)
	RecordDistribution(ctx context.Context, d core.Distribution) (int64, error)
}

// Reporter serves the derived aggregates.
type Reporter interface {
	InventoryFor(ctx context.Context, t core.DonationType) (core.InventoryAggregate, error)
	InventorySummary(ctx context.Context) (core.InventorySummary, error)
	CheckInventory(ctx context.Context, t core.DonationType, quantity decimal.Decimal) (core.InventoryCheck, error)
	DonorReport(ctx context.Context) (core.DonorReport, error)
	DonorContribution(ctx context.Context, donorName string) (core.DonorContribution, error)
}

type Server struct {
	http.Server
	recorder Recorder
	store    records.Reader
	reports  Reporter

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, recorder Recorder, store records.Reader, reports Reporter) *Server {
	s := &Server{
		recorder: recorder,
		store:    store,
		reports:  reports,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}
	s.Addr = addr

	tracer := trace.NewMiddleware(clientIP)

	r := chi.NewRouter()
	r.Use(tracer.Middleware)
	r.Use(securityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(api chi.Router) {
		api.Route("/donations", func(r chi.Router) {
			r.With(s.rateLimit).Post("/", s.handleCreateDonation)
			r.Get("/", s.handleListDonations)
			r.Get("/donors", s.handleDonorNames)
			r.Get("/count", s.handleDonationCount)
			r.Get("/donor/{donorName}", s.handleDonationsByDonor)
			r.Get("/{id}", s.handleGetDonation)
		})
		api.Route("/distributions", func(r chi.Router) {
			r.With(s.rateLimit).Post("/", s.handleCreateDistribution)
			r.Get("/", s.handleListDistributions)
			r.Get("/recipients", s.handleRecipients)
			r.Get("/count", s.handleDistributionCount)
			r.Get("/{id}", s.handleGetDistribution)
		})
		api.Route("/reports", func(r chi.Router) {
			r.Get("/inventory", s.handleInventorySummary)
			r.Get("/inventory/check", s.handleInventoryCheck)
			r.Get("/inventory/{donationType}", s.handleInventoryForType)
			r.Get("/donors", s.handleDonorReport)
			r.Get("/donors/{donorName}", s.handleDonorContribution)
		})
	})

	s.Handler = r
	return s
}

// Shutdown stops the rate limiter cleanup goroutine before shutting down
// the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// rateLimit guards the mutating endpoints; read endpoints stay open since
// the client polls reports on every page load.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
