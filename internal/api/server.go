// Package api exposes the portal's HTTP surface: the two submission
// endpoints, the protected admin listing, health and metrics.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apimw "github.com/fundacionidi/portal-proveedores/internal/api/middleware"
	"github.com/fundacionidi/portal-proveedores/internal/auth"
	"github.com/fundacionidi/portal-proveedores/internal/config"
	"github.com/fundacionidi/portal-proveedores/internal/form"
	"github.com/fundacionidi/portal-proveedores/internal/model"
	"github.com/fundacionidi/portal-proveedores/internal/repository"
)

// RecordStore appends submission documents and lists them for review.
type RecordStore interface {
	Append(ctx context.Context, collection string, doc any) (string, error)
	List(ctx context.Context, collection string, limit int) ([]repository.Envelope, error)
}

// AttachmentUploader pushes a submission's files to the media store.
type AttachmentUploader interface {
	UploadAll(ctx context.Context, def form.Definition, identity string, files map[string]*form.File) ([]model.Adjunto, error)
}

// Notifier sends the two registration emails.
type Notifier interface {
	NotifyAdmin(ctx context.Context, def form.Definition, sub *model.Submission, recordID string) error
	NotifyProvider(ctx context.Context, def form.Definition, sub *model.Submission) error
}

// Server hosts the HTTP handlers and their collaborators.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	records  RecordStore
	uploader AttachmentUploader
	notifier Notifier
	guard    *auth.Guard
	server   *http.Server
}

// New wires the router and middleware chain.
func New(cfg *config.Config, logger *slog.Logger, records RecordStore, uploader AttachmentUploader, notifier Notifier, guard *auth.Guard) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "api")),
		records:  records,
		uploader: uploader,
		notifier: notifier,
		guard:    guard,
	}
	s.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi router. Exposed separately so tests can drive the
// handlers through httptest without binding a port.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(apimw.Recover(s.logger))
	r.Use(apimw.Logging(s.logger))
	r.Use(apimw.Metrics())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.respondMessage(w, http.StatusNotFound, "Recurso no encontrado.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.respondMessage(w, http.StatusMethodNotAllowed, "Método no permitido. Use POST.")
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/proveedores", func(r chi.Router) {
		r.Post("/natural", s.handleSubmit(form.Natural))
		r.Post("/juridica", s.handleSubmit(form.Juridica))
	})
	r.Route("/api/admin/proveedores", func(r chi.Router) {
		r.Use(s.guard.Middleware())
		r.Get("/{tipo}", s.handleList)
	})
	return r
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	s.logger.Info("listening", slog.String("address", s.cfg.Address))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleList serves the admin review listing for one supplier type.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var def form.Definition
	switch chi.URLParam(r, "tipo") {
	case "natural":
		def = form.Natural
	case "juridica":
		def = form.Juridica
	default:
		s.respondMessage(w, http.StatusNotFound, "Recurso no encontrado.")
		return
	}
	items, err := s.records.List(r.Context(), def.Collection, 0)
	if err != nil {
		s.logger.Error("list registros",
			slog.String("collection", def.Collection),
			slog.String("error", err.Error()),
		)
		s.respondServerError(w, "Ocurrió un error en el servidor.", "")
		return
	}
	if items == nil {
		items = []repository.Envelope{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"proveedores": items})
}
