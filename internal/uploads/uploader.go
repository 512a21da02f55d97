// Package uploads pushes a submission's attachments to the media store.
package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fundacionidi/portal-proveedores/internal/form"
	"github.com/fundacionidi/portal-proveedores/internal/model"
)

// MediaStore is the narrow slice of the object store the uploader needs.
type MediaStore interface {
	Upload(ctx context.Context, localPath, objectKey, contentType string) (string, error)
	Remove(ctx context.Context, objectKey string) error
}

// Error reports which slot's upload failed.
type Error struct {
	Slot string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("subir documento '%s': %v", e.Slot, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Uploader uploads each present file slot under a deterministic object key.
type Uploader struct {
	store   MediaStore
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// New constructs an Uploader. prefix is the top-level key prefix shared by
// every submission (e.g. "portal_idi"); timeout bounds each individual upload.
func New(store MediaStore, prefix string, timeout time.Duration, logger *slog.Logger) *Uploader {
	return &Uploader{
		store:   store,
		prefix:  prefix,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "uploads")),
	}
}

// UploadAll uploads every present slot concurrently and returns one Adjunto
// per uploaded file, in slot declaration order. The first failure cancels the
// remaining uploads, and objects already stored for this submission are
// removed best-effort so a retried submission starts clean.
func (u *Uploader) UploadAll(ctx context.Context, def form.Definition, identity string, files map[string]*form.File) ([]model.Adjunto, error) {
	results := make([]*model.Adjunto, len(def.Slots))
	var (
		mu       sync.Mutex
		uploaded []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range def.Slots {
		file, ok := files[slot.Name]
		if !ok {
			continue
		}
		i, slot, file := i, slot, file
		g.Go(func() error {
			objectKey := u.objectKey(def.Category, identity, slot.Label)
			uctx, cancel := context.WithTimeout(gctx, u.timeout)
			defer cancel()
			url, err := u.store.Upload(uctx, file.Path, objectKey, file.ContentType)
			if err != nil {
				return &Error{Slot: slot.Label, Err: err}
			}
			mu.Lock()
			uploaded = append(uploaded, objectKey)
			results[i] = &model.Adjunto{
				Documento: slot.Label,
				Nombre:    file.Filename,
				URL:       url,
				Tipo:      file.ContentType,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.compensate(uploaded)
		return nil, err
	}
	adjuntos := make([]model.Adjunto, 0, len(results))
	for _, a := range results {
		if a != nil {
			adjuntos = append(adjuntos, *a)
		}
	}
	return adjuntos, nil
}

// objectKey derives a stable key from the slot label rather than whatever the
// submitter named the file, so retries overwrite the same object.
func (u *Uploader) objectKey(category, identity, label string) string {
	return path.Join(u.prefix, category, identity, sanitizeLabel(label))
}

func sanitizeLabel(label string) string {
	return strings.ReplaceAll(strings.TrimSpace(label), " ", "_")
}

// compensate removes the objects a failed submission already stored. Uses a
// fresh context: the request's may already be cancelled.
func (u *Uploader) compensate(objectKeys []string) {
	if len(objectKeys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()
	for _, key := range objectKeys {
		if err := u.store.Remove(ctx, key); err != nil {
			u.logger.Warn("no se pudo revertir carga",
				slog.String("object_key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}
