package form

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func newMultipartRequest(t *testing.T, build func(w *multipart.Writer)) *Data {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	build(w)
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/proveedores/natural", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	data, err := Parse(req, 10<<20)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	t.Cleanup(func() { data.Cleanup(nil) })
	return data
}

func TestParseFieldsAndFiles(t *testing.T) {
	data := newMultipartRequest(t, func(w *multipart.Writer) {
		_ = w.WriteField("nombreCompleto", "Ana Ruiz")
		_ = w.WriteField("cedula", " 123 ")
		fw, _ := w.CreateFormFile("rut", "mi rut.pdf")
		_, _ = fw.Write([]byte("%PDF-1.4 contenido de prueba"))
	})
	if data.Fields["nombreCompleto"] != "Ana Ruiz" {
		t.Errorf("unexpected field value %q", data.Fields["nombreCompleto"])
	}
	if data.Fields["cedula"] != "123" {
		t.Errorf("expected trimmed value, got %q", data.Fields["cedula"])
	}
	file, ok := data.Files["rut"]
	if !ok {
		t.Fatalf("expected rut file")
	}
	if file.Filename != "mi rut.pdf" {
		t.Errorf("unexpected filename %q", file.Filename)
	}
	if file.ContentType != "application/pdf" {
		t.Errorf("expected sniffed pdf type, got %q", file.ContentType)
	}
	if file.Size == 0 {
		t.Errorf("expected non-zero size")
	}
	if _, err := os.Stat(file.Path); err != nil {
		t.Errorf("spooled file missing: %v", err)
	}
}

func TestParseFirstValueWins(t *testing.T) {
	data := newMultipartRequest(t, func(w *multipart.Writer) {
		_ = w.WriteField("email", "primero@x.com")
		_ = w.WriteField("email", "segundo@x.com")
	})
	if data.Fields["email"] != "primero@x.com" {
		t.Errorf("first value should win, got %q", data.Fields["email"])
	}
}

func TestParseFirstFileWins(t *testing.T) {
	data := newMultipartRequest(t, func(w *multipart.Writer) {
		fw, _ := w.CreateFormFile("rut", "uno.pdf")
		_, _ = fw.Write([]byte("%PDF-1.4 uno"))
		fw, _ = w.CreateFormFile("rut", "dos.pdf")
		_, _ = fw.Write([]byte("%PDF-1.4 dos"))
	})
	if data.Files["rut"].Filename != "uno.pdf" {
		t.Errorf("first file should win, got %q", data.Files["rut"].Filename)
	}
}

func TestParseDropsEmptyFilePart(t *testing.T) {
	data := newMultipartRequest(t, func(w *multipart.Writer) {
		_, _ = w.CreateFormFile("declaracionJuramentada", "vacio.pdf")
	})
	if _, ok := data.Files["declaracionJuramentada"]; ok {
		t.Errorf("empty file part should be dropped")
	}
}

func TestParseRejectsNonMultipart(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/proveedores/natural", strings.NewReader(`{"nombre":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := Parse(req, 10<<20); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParseEnforcesFileSizeCap(t *testing.T) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	fw, _ := w.CreateFormFile("rut", "grande.pdf")
	_, _ = fw.Write(bytes.Repeat([]byte("a"), 2048))
	_ = w.Close()
	req := httptest.NewRequest("POST", "/api/proveedores/natural", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if _, err := Parse(req, 1024); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for oversized file, got %v", err)
	}
}

func TestCleanupRemovesTempFiles(t *testing.T) {
	data := newMultipartRequest(t, func(w *multipart.Writer) {
		fw, _ := w.CreateFormFile("rut", "rut.pdf")
		_, _ = fw.Write([]byte("%PDF-1.4 contenido"))
	})
	path := data.Files["rut"].Path
	data.Cleanup(nil)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp file removed, stat err: %v", err)
	}
}
