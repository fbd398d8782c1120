// Package main implements sig-server, a small HTTP service exposing sig
// parsing, autocomplete and schedule projection.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/juju/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/engine"
	"github.com/gofhir/sig/fhir"
	"github.com/gofhir/sig/schedule"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sig_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "status"})

	parseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sig_parse_duration_seconds",
		Help:    "Sig parse latency.",
		Buckets: prometheus.DefBuckets,
	})
)

type server struct {
	eng       *engine.Engine
	log       *zap.Logger
	defaultTZ string
}

type parseRequest struct {
	Sig      string `json:"sig"`
	Locale   string `json:"locale,omitempty"`
	DoseForm string `json:"doseForm,omitempty"`
	Route    string `json:"route,omitempty"`
}

type nextDosesRequest struct {
	Dosage     *fhir.Dosage `json:"dosage"`
	TimeZone   string       `json:"timeZone,omitempty"`
	From       string       `json:"from,omitempty"`
	OrderedAt  string       `json:"orderedAt,omitempty"`
	Limit      int          `json:"limit,omitempty"`
	PriorCount *int         `json:"priorCount,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	addr := envOr("SIG_SERVER_ADDR", ":8080")
	rate := float64(envIntOr("SIG_SERVER_RATE", 50))

	s := &server{
		eng:       engine.New(sig.WithSmartMealExpansion(true)),
		log:       log,
		defaultTZ: envOr("SIG_DEFAULT_TZ", "UTC"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logging)
	r.Use(rateLimit(rate))
	r.Use(middleware.Recoverer)

	r.Post("/parse", s.handleParse)
	r.Get("/suggest", s.handleSuggest)
	r.Post("/next-doses", s.handleNextDoses)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("sig-server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server failed", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// requestID attaches a UUID to every request for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, id)))
	})
}

func (s *server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestId", middleware.GetReqID(r.Context())),
		)
		requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(ww.Status())).Inc()
	})
}

// rateLimit applies a global token bucket: rate requests per second with a
// burst of the same size.
func rateLimit(perSecond float64) func(http.Handler) http.Handler {
	bucket := ratelimit.NewBucketWithRate(perSecond, int64(perSecond))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bucket.TakeAvailable(1) == 0 {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Sig == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be JSON with a non-empty \"sig\""})
		return
	}

	eng := s.eng
	if req.Locale != "" || req.DoseForm != "" || req.Route != "" {
		opts := []sig.Option{sig.WithSmartMealExpansion(true)}
		if req.Locale != "" {
			opts = append(opts, sig.WithLocale(req.Locale))
		}
		if req.DoseForm != "" || req.Route != "" {
			opts = append(opts, sig.WithContext(&sig.MedContext{
				DoseForm:     req.DoseForm,
				DefaultRoute: req.Route,
			}))
		}
		eng = engine.New(opts...)
	}

	start := time.Now()
	result, err := eng.ParseSigContext(r.Context(), req.Sig)
	parseDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": s.eng.Suggest(q)})
}

func (s *server) handleNextDoses(w http.ResponseWriter, r *http.Request) {
	var req nextDosesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Dosage == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be JSON with a \"dosage\""})
		return
	}

	opts := schedule.Options{
		TimeZone:   req.TimeZone,
		From:       time.Now(),
		Limit:      req.Limit,
		PriorCount: req.PriorCount,
	}
	if opts.TimeZone == "" {
		opts.TimeZone = s.defaultTZ
	}
	if req.From != "" {
		t, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from must be RFC 3339"})
			return
		}
		opts.From = t
	}
	if req.OrderedAt != "" {
		t, err := time.Parse(time.RFC3339, req.OrderedAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "orderedAt must be RFC 3339"})
			return
		}
		opts.OrderedAt = t
	}

	times, err := s.eng.NextDoses(req.Dosage, opts)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"times": times})
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": sig.Version})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
