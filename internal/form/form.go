// Package form parses multipart submissions into field and file maps and
// validates them against a form definition.
package form

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
)

// ErrMalformed reports a request body that could not be parsed as multipart
// form data.
var ErrMalformed = errors.New("cuerpo multipart invalido")

// File is one uploaded attachment spooled to transient local storage.
type File struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
}

// Data is the normalized result of parsing one submission. When a field or
// file part repeats, the first occurrence wins, mirroring the portal's
// original normalization.
type Data struct {
	Fields map[string]string
	Files  map[string]*File
}

// maxValueBytes caps a single scalar field; anything larger is not a form
// field this portal defines.
const maxValueBytes = 1 << 20

// Parse reads the request body as multipart form data. Scalar parts land in
// Fields; file parts are streamed to temp files with their content type
// sniffed from the first 512 bytes. Callers must Cleanup the returned Data.
func Parse(r *http.Request, maxFileBytes int64) (*Data, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	data := &Data{
		Fields: make(map[string]string),
		Files:  make(map[string]*File),
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			data.Cleanup(nil)
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		name := part.FormName()
		if name == "" {
			part.Close()
			continue
		}
		if part.FileName() == "" {
			if err := readValue(data, name, part); err != nil {
				part.Close()
				data.Cleanup(nil)
				return nil, err
			}
			part.Close()
			continue
		}
		if _, seen := data.Files[name]; seen {
			// First file per slot wins; drain the duplicate.
			_, _ = io.Copy(io.Discard, part)
			part.Close()
			continue
		}
		file, err := spoolFile(part, maxFileBytes)
		part.Close()
		if err != nil {
			data.Cleanup(nil)
			return nil, err
		}
		if file != nil {
			data.Files[name] = file
		}
	}
	return data, nil
}

// Cleanup removes the spooled temp files. Safe to call more than once.
func (d *Data) Cleanup(logger *slog.Logger) {
	for name, f := range d.Files {
		if f.Path == "" {
			continue
		}
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) && logger != nil {
			logger.Warn("no se pudo borrar archivo temporal",
				slog.String("slot", name),
				slog.String("path", f.Path),
				slog.String("error", err.Error()),
			)
		}
		f.Path = ""
	}
}

func readValue(data *Data, name string, part *multipart.Part) error {
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, io.LimitReader(part, maxValueBytes)); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, seen := data.Fields[name]; !seen {
		data.Fields[name] = strings.TrimSpace(buf.String())
	}
	return nil
}

// spoolFile streams a file part to a temp file, enforcing the per-file size
// cap and sniffing the content type. Empty file parts (a file input left
// blank still submits a zero-byte part in some browsers) are dropped.
func spoolFile(part *multipart.Part, maxFileBytes int64) (*File, error) {
	tmp, err := os.CreateTemp("", "portal-adjunto-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	discard := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}
	var (
		sniff   []byte
		written int64
	)
	buf := make([]byte, 32*1024)
	for {
		n, readErr := part.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > maxFileBytes {
				discard()
				return nil, fmt.Errorf("%w: archivo excede el limite de %d bytes", ErrMalformed, maxFileBytes)
			}
			if len(sniff) < 512 {
				chunk := n
				if remain := 512 - len(sniff); chunk > remain {
					chunk = remain
				}
				sniff = append(sniff, buf[:chunk]...)
			}
			if _, err := tmp.Write(buf[:n]); err != nil {
				discard()
				return nil, fmt.Errorf("write temp file: %w", err)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			discard()
			return nil, fmt.Errorf("%w: %v", ErrMalformed, readErr)
		}
	}
	if written == 0 {
		discard()
		return nil, nil
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return &File{
		Path:        tmp.Name(),
		Filename:    part.FileName(),
		ContentType: http.DetectContentType(sniff),
		Size:        written,
	}, nil
}
