package notify

import (
	"strings"
	"testing"

	"github.com/fundacionidi/portal-proveedores/internal/config"
	"github.com/fundacionidi/portal-proveedores/internal/form"
	"github.com/fundacionidi/portal-proveedores/internal/model"
)

func testMailer() *Mailer {
	return New(&config.Config{
		ResendAPIKey: "re_test",
		EmailFrom:    "Portal IDI <onboarding@resend.dev>",
		AdminEmail:   "proyectos@fundacionidi.org",
	})
}

func testSubmission() *model.Submission {
	return model.NewSubmission(form.Natural.Tipo, map[string]string{
		"nombreCompleto": "Ana Ruiz",
		"cedula":         "123",
		"email":          "a@x.com",
		"telefono":       "555",
	})
}

func TestAdminTemplate(t *testing.T) {
	m := testMailer()
	body, err := render(adminTmpl, m.data(form.Natural, testSubmission(), "rec-123"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Ana Ruiz", "123", "a@x.com", "555", "rec-123", "Persona Natural"} {
		if !strings.Contains(body, want) {
			t.Errorf("admin body missing %q", want)
		}
	}
}

func TestProviderTemplate(t *testing.T) {
	m := testMailer()
	body, err := render(providerTmpl, m.data(form.Natural, testSubmission(), ""))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Hola Ana Ruiz", "proyectos@fundacionidi.org", contactPhone} {
		if !strings.Contains(body, want) {
			t.Errorf("provider body missing %q", want)
		}
	}
}

func TestDataUsesDefinitionFields(t *testing.T) {
	m := testMailer()
	sub := model.NewSubmission(form.Juridica.Tipo, map[string]string{
		"razonSocial": "ACME SAS",
		"nit":         "900123456",
		"email":       "acme@x.com",
		"telefono":    "555",
	})
	data := m.data(form.Juridica, sub, "rec-9")
	if data.Nombre != "ACME SAS" {
		t.Errorf("expected razonSocial as display name, got %q", data.Nombre)
	}
	if data.Identidad != "900123456" {
		t.Errorf("expected nit as identity, got %q", data.Identidad)
	}
}
