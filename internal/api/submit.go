package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apimw "github.com/fundacionidi/portal-proveedores/internal/api/middleware"
	"github.com/fundacionidi/portal-proveedores/internal/form"
	"github.com/fundacionidi/portal-proveedores/internal/model"
	"github.com/fundacionidi/portal-proveedores/internal/uploads"
)

// handleSubmit runs the submission pipeline for one form definition:
// parse → validate → upload → persist → notify. Every step before persistence
// short-circuits without side effects visible to a retry; once the record is
// appended the request succeeds regardless of notification outcome.
func (s *Server) handleSubmit(def form.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

		data, err := form.Parse(r, s.cfg.MaxFileBytes)
		if err != nil {
			apimw.SubmissionsTotal.WithLabelValues(def.Tipo, "malformado").Inc()
			s.respondMessage(w, http.StatusBadRequest, "No se pudo procesar el formulario enviado.")
			return
		}
		defer data.Cleanup(s.logger)

		if err := form.Validate(def, data); err != nil {
			apimw.SubmissionsTotal.WithLabelValues(def.Tipo, "validacion").Inc()
			s.respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		sub := model.NewSubmission(def.Tipo, data.Fields)

		adjuntos, err := s.uploader.UploadAll(ctx, def, data.Fields[def.IdentityField], data.Files)
		if err != nil {
			apimw.SubmissionsTotal.WithLabelValues(def.Tipo, "carga").Inc()
			var upErr *uploads.Error
			detail := ""
			if errors.As(err, &upErr) {
				detail = upErr.Slot
			}
			s.logger.Error("carga de adjuntos fallida",
				slog.String("tipo", def.Tipo),
				slog.String("error", err.Error()),
			)
			s.respondServerError(w, "Error al subir uno de los archivos.", detail)
			return
		}
		sub.ArchivosAdjuntos = adjuntos

		persistCtx, cancel := context.WithTimeout(ctx, s.cfg.PersistTimeout)
		defer cancel()
		recordID, err := s.records.Append(persistCtx, def.Collection, sub)
		if err != nil {
			apimw.SubmissionsTotal.WithLabelValues(def.Tipo, "persistencia").Inc()
			s.logger.Error("persistencia fallida",
				slog.String("collection", def.Collection),
				slog.String("error", err.Error()),
			)
			s.respondServerError(w, "Ocurrió un error en el servidor.", "")
			return
		}

		s.notify(def, sub, recordID)

		apimw.SubmissionsTotal.WithLabelValues(def.Tipo, "recibido").Inc()
		s.respondJSON(w, http.StatusOK, map[string]string{
			"message":    "Proveedor registrado exitosamente.",
			"providerId": recordID,
		})
	}
}

// notify attempts both registration emails independently. The record already
// exists, so failures are logged and counted but never change the response.
// A fresh context keeps the sends alive even if the client disconnects.
func (s *Server) notify(def form.Definition, sub *model.Submission, recordID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotifyTimeout)
	defer cancel()
	if err := s.notifier.NotifyAdmin(ctx, def, sub, recordID); err != nil {
		apimw.NotificationFailures.WithLabelValues("admin").Inc()
		s.logger.Error("correo al administrador fallido",
			slog.String("record_id", recordID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.notifier.NotifyProvider(ctx, def, sub); err != nil {
		apimw.NotificationFailures.WithLabelValues("proveedor").Inc()
		s.logger.Error("correo al proveedor fallido",
			slog.String("record_id", recordID),
			slog.String("error", err.Error()),
		)
	}
}
