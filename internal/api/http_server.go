package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"safarinova/internal/config"
	"safarinova/internal/domain"
	"safarinova/internal/service"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer exposes the named remote operations over HTTP. Operations
// live under /api/v1/rpc/<name> and carry caller credentials implicitly
// via bearer token or session cookie.
type HTTPServer struct {
	cfg      config.Config
	resolver domain.IdentityResolver
	bookings *service.BookingService
	server   *http.Server
	log      zerolog.Logger
	limiters sync.Map // map[string]*rate.Limiter
}

func NewHTTPServer(
	cfg config.Config,
	resolver domain.IdentityResolver,
	bookings *service.BookingService,
	logger *zerolog.Logger,
) *HTTPServer {
	var serverLogger zerolog.Logger
	if logger != nil {
		serverLogger = logger.With().Str("component", "http").Logger()
	}

	srv := &HTTPServer{
		cfg:      cfg,
		resolver: resolver,
		bookings: bookings,
		log:      serverLogger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/rpc/auth.me", srv.handleAuthMe)
	mux.HandleFunc("/api/v1/rpc/bookings.create", srv.handleBookingsCreate)
	mux.HandleFunc("/api/v1/rpc/bookings.myBookings", srv.handleMyBookings)
	mux.HandleFunc("/api/v1/rpc/bookings.all", srv.handleAllBookings)
	mux.HandleFunc("/api/v1/rpc/bookings.updateStatus", srv.handleUpdateStatus)
	mux.HandleFunc("/api/v1/rpc/bookings.export", srv.handleExport)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.rateLimitMiddleware(mux))
	if len(cfg.API.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.API.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(handler)
	}

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the assembled handler chain. Used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// credential extracts the raw caller credential from the request: a
// bearer token takes precedence over the session cookie. Absent
// credentials return "" and resolve to anonymous downstream.
func (s *HTTPServer) credential(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(s.cfg.Auth.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("x-request-id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("x-request-id", requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.API.RateLimit.RPS > 0 {
			lim := s.getLimiter(clientKey(r))
			if !lim.Allow() {
				writeError(w, http.StatusTooManyRequests, "UNAVAILABLE", "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (s *HTTPServer) getLimiter(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.API.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.API.RateLimit.RPS), burst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
