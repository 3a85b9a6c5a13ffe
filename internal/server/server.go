// Package server serves the calk.kg pages, crawler files and calculator API.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/calk-kg/calk/internal/config"
	"github.com/calk-kg/calk/internal/site"
	"github.com/calk-kg/calk/pkg/loans"
	"github.com/calk-kg/calk/pkg/offers"
	"github.com/calk-kg/calk/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

//go:embed static/* templates/*
var assets embed.FS

// Options holds the dependencies of the handler. Only Config is commonly set;
// every other field has a usable default.
type Options struct {
	Logger   *zap.Logger
	Config   *config.Configuration
	Catalog  *site.Catalog
	Offers   *offers.Catalog
	Schema   *schema.Generator
	Registry *prometheus.Registry
	Version  string
	Now      func() time.Time
}

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	siteName    string
	trustProxy  bool
	catalog     *site.Catalog
	offers      *offers.Catalog
	schema      *schema.Generator
	schedules   *loans.AmortizationScheduleGenerator
	pages       *template.Template
	cache       *cache.Cache
	metrics     *metrics
	limiter     *clientLimiter
	sanitizer   *bluemonday.Policy
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the site and its API.
func NewHandler(opts Options) (http.Handler, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	conf := opts.Config
	if conf == nil {
		defaults, err := config.LoadConfiguration("")
		if err != nil {
			return nil, err
		}
		conf = defaults
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = site.NewCatalog(conf.Site.BaseURL)
	}

	offerCatalog := opts.Offers
	if offerCatalog == nil {
		loaded, err := offers.LoadFile(conf.Offers.File)
		if err != nil {
			return nil, err
		}
		offerCatalog = loaded
	}

	generator := opts.Schema
	if generator == nil {
		generator = schema.NewGenerator(SiteFromConfig(conf.Site), now)
	}

	pages, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
	}

	h := &handler{
		logger:      logger,
		maxBodySize: conf.Server.MaxBodyBytes(),
		version:     trimmedVersion,
		siteName:    conf.Site.Name,
		trustProxy:  conf.Server.TrustProxy,
		catalog:     catalog,
		offers:      offerCatalog,
		schema:      generator,
		schedules:   loans.NewAmortizationScheduleGenerator(logger),
		pages:       pages,
		metrics:     newMetrics(opts.Registry),
		limiter:     newClientLimiter(conf.RateLimit.RequestsPerSecond, conf.RateLimit.Burst, now),
		sanitizer:   bluemonday.StrictPolicy(),
		now:         now,
	}
	if conf.Cache.TTL > 0 {
		h.cache = cache.New(conf.Cache.TTL, conf.Cache.CleanupInterval)
	}

	return h.routes()
}

// SiteFromConfig returns the structured data publisher for the configured site.
func SiteFromConfig(sc config.SiteConfig) schema.Site {
	s := schema.DefaultSite()
	if sc.Name != "" {
		s.Name = sc.Name
	}
	if sc.BaseURL != "" {
		s.URL = sc.BaseURL
	}
	if sc.ContactEmail != "" {
		s.Email = sc.ContactEmail
	}
	return s
}

func (h *handler) routes() (http.Handler, error) {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}

	r := chi.NewRouter()
	if h.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(h.requestLogger)
	r.Use(h.metrics.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	r.NotFound(h.handleNotFound)
	r.MethodNotAllowed(h.handleMethodNotAllowed)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", h.metrics.handler)
	r.Get("/sitemap.xml", h.handleSitemap)
	r.Get("/robots.txt", h.handleRobots)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/api", func(r chi.Router) {
		r.Use(h.rateLimit)

		// Metadata
		r.Get("/version", h.handleVersion)
		r.Get("/calculators", h.handleCalculators)
		r.Get("/schema", h.handleSchema)
		r.Get("/schema/*", h.handleSchema)

		// Reference data
		r.Get("/offers/{kind}", h.handleOffers)
		r.Get("/examples", h.handleExamples)
		r.Get("/single-tax/activities", h.handleActivities)
		r.Get("/property-tax/cities", h.handleCities)

		// Calculators
		r.Route("/calculate", func(r chi.Router) {
			r.Post("/auto-loan", h.handleAutoLoan)
			r.Post("/loan", h.handleLoan)
			r.Post("/mortgage", h.handleMortgage)
			r.Post("/deposit", h.handleDeposit)
			r.Post("/property-tax", h.handlePropertyTax)
			r.Post("/single-tax", h.handleSingleTax)
		})

		r.Post("/contact", h.handleContact)
	})

	// Pages, Russian at the root and Kyrgyz under /ky
	r.Get("/", h.handlePage)
	r.Get("/ky", h.handlePage)
	r.Get("/calculator/{id}", h.handlePage)
	r.Get("/ky/calculator/{id}", h.handlePage)
	r.Get("/{page}", h.handlePage)
	r.Get("/ky/{page}", h.handlePage)

	return r, nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	http.NotFound(w, r)
}

func (h *handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": http.StatusText(http.StatusMethodNotAllowed),
	})
}

// decodeJSON reads a request body of at most maxBodySize bytes into v. The
// returned status is 413 for oversized bodies and 400 otherwise.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds limit of %d bytes", h.maxBodySize)
		}
		return http.StatusBadRequest, fmt.Errorf("failed to decode request: %v", err)
	}
	return http.StatusOK, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	logger := LoggerFromContext(r.Context(), h.logger)
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Warn("request rejected", fields...)
	}

	body := map[string]string{"error": msg}
	if id := RequestIDFromContext(r.Context()); id != "" {
		body["requestId"] = id
	}
	h.writeJSON(w, status, body)
}

// writeJSON encodes payload before writing the status, so a payload that
// cannot be encoded is reported as a 500 instead of an empty response.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		if h.logger != nil {
			h.logger.Error("failed to encode JSON response", zap.Error(err))
		}
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// cached returns the value stored under key, building and storing it on a
// miss. Without a cache every call builds.
func (h *handler) cached(key string, build func() ([]byte, error)) ([]byte, error) {
	if h.cache != nil {
		if v, found := h.cache.Get(key); found {
			return v.([]byte), nil
		}
	}
	data, err := build()
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.Set(key, data, cache.DefaultExpiration)
	}
	return data, nil
}
