package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/catalog-service/internal/attachment"
	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/http/apierr"
	"github.com/tuanvumaihuynh/catalog-service/internal/http/metric"
	"github.com/tuanvumaihuynh/catalog-service/internal/http/middleware"
	"github.com/tuanvumaihuynh/catalog-service/internal/http/swagger"
	"github.com/tuanvumaihuynh/catalog-service/internal/service"
)

const healthPath = "/healthz"

var tracer = otel.Tracer("internal/http")

// HealthChecker reports store readiness for the health endpoint.
type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
	CountProducts(ctx context.Context) (int64, error)
}

// Service represents the HTTP service.
type Service struct {
	cfg     config.HTTP
	upload  config.Upload
	logger  *slog.Logger
	metrics *metric.Metrics

	productSvc  service.ProductService
	attachments attachment.Store
	health      HealthChecker
}

type CleanupFunc func(ctx context.Context) error

// handlerFunc is an http.HandlerFunc that reports failures as an error,
// rendered by Service.handleResponseError.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func New(
	cfg config.HTTP,
	upload config.Upload,
	log *slog.Logger,
	productSvc service.ProductService,
	attachments attachment.Store,
	health HealthChecker,
) *Service {
	return &Service{
		cfg:         cfg,
		upload:      upload,
		logger:      log.With(slog.String("service", "http")),
		metrics:     metric.New(),
		productSvc:  productSvc,
		attachments: attachments,
		health:      health,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r, err := s.Router(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, r)
}

// Router builds the complete handler tree without starting a listener.
func (s *Service) Router(ctx context.Context) (chi.Router, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(ctx, r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	s.logger.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	skipTrace := slices.Concat([]string{middleware.MetricsPath, healthPath}, swagger.Paths)

	r.Use(
		middleware.Recoverer(s.logger),
		middleware.CorrelationID(),
		middleware.Trace(tracer, skipTrace...),
		middleware.Metrics(s.metrics, healthPath),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	h := newProductHandler(s.logger, s.upload, s.productSvc, s.attachments)

	r.Route(s.cfg.APIPrefix, func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handle(h.ListProducts))
			r.Post("/", s.handle(h.CreateProduct))
			r.Delete("/", s.handle(h.DeleteAllProducts))

			r.Get("/{id}", s.handle(h.GetProduct))
			r.Delete("/{id}", s.handle(h.DeleteProduct))
		})
	})

	r.Handle(s.upload.PublicPrefix+"/*", http.StripPrefix(s.upload.PublicPrefix, s.attachments.Handler()))

	r.Get(healthPath, s.handleHealth)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Products int64  `json:"products"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if ok, err := s.health.IsHealthy(ctx); !ok {
		s.logger.WarnContext(ctx, "store is not healthy", slog.Any("error", err))
		//nolint:errcheck
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	n, err := s.health.CountProducts(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "error counting products", slog.Any("error", err))
		//nolint:errcheck
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	//nolint:errcheck
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Products: n})
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := writeJSON(w, res.StatusCode, res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
