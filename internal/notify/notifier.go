// Package notify sends the two registration emails through Resend: an alert
// to the administrator and a confirmation to the submitter.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/fundacionidi/portal-proveedores/internal/config"
	"github.com/fundacionidi/portal-proveedores/internal/form"
	"github.com/fundacionidi/portal-proveedores/internal/model"
)

const contactPhone = "3175103393"

// Mailer sends templated HTML email via Resend.
type Mailer struct {
	client     *resend.Client
	from       string
	adminEmail string
}

// New constructs a Mailer from the Config.
func New(cfg *config.Config) *Mailer {
	return &Mailer{
		client:     resend.NewClient(cfg.ResendAPIKey),
		from:       cfg.EmailFrom,
		adminEmail: cfg.AdminEmail,
	}
}

type emailData struct {
	Tipo             string
	Nombre           string
	Identidad        string
	Email            string
	Telefono         string
	RecordID         string
	AdminEmail       string
	TelefonoContacto string
}

var adminTmpl = template.Must(template.New("admin").Parse(`
<h1>Nuevo Registro en el Portal de Proveedores</h1>
<p>Se ha registrado un nuevo proveedor ({{.Tipo}}):</p>
<ul>
  <li><strong>Nombre:</strong> {{.Nombre}}</li>
  <li><strong>Identificaci&oacute;n:</strong> {{.Identidad}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  <li><strong>Tel&eacute;fono:</strong> {{.Telefono}}</li>
</ul>
<p>Los documentos adjuntos han sido cargados y est&aacute;n listos para revisi&oacute;n en el portal de administraci&oacute;n.</p>
<p>ID del registro: {{.RecordID}}</p>
`))

var providerTmpl = template.Must(template.New("provider").Parse(`
<h1>Hemos recibido su informaci&oacute;n</h1>
<p>Hola {{.Nombre}},</p>
<p>Confirmamos que hemos recibido sus documentos a satisfacci&oacute;n y nuestro equipo proceder&aacute; a revisarlos para continuar con el proceso de vinculaci&oacute;n.</p>
<p>El proceso de revisi&oacute;n puede tardar algunos d&iacute;as h&aacute;biles.</p>
<p>Cualquier inquietud, puede comunicarse con nosotros al correo <strong>{{.AdminEmail}}</strong> o al n&uacute;mero <strong>{{.TelefonoContacto}}</strong>.</p>
<br>
<p>Atentamente,</p>
<p><strong>Equipo de la Fundaci&oacute;n IDI</strong></p>
`))

// NotifyAdmin alerts the administrator that a new submission was persisted.
func (m *Mailer) NotifyAdmin(ctx context.Context, def form.Definition, sub *model.Submission, recordID string) error {
	data := m.data(def, sub, recordID)
	body, err := render(adminTmpl, data)
	if err != nil {
		return err
	}
	return m.send(ctx, []string{m.adminEmail},
		fmt.Sprintf("Nuevo Proveedor Registrado: %s", data.Nombre), body)
}

// NotifyProvider confirms reception to the submitter.
func (m *Mailer) NotifyProvider(ctx context.Context, def form.Definition, sub *model.Submission) error {
	data := m.data(def, sub, "")
	body, err := render(providerTmpl, data)
	if err != nil {
		return err
	}
	return m.send(ctx, []string{sub.Campo("email")},
		"Confirmación de Recepción de Documentos - Fundación IDI", body)
}

func (m *Mailer) data(def form.Definition, sub *model.Submission, recordID string) emailData {
	return emailData{
		Tipo:             sub.Tipo,
		Nombre:           sub.Campo(def.DisplayField),
		Identidad:        sub.Campo(def.IdentityField),
		Email:            sub.Campo("email"),
		Telefono:         sub.Campo("telefono"),
		RecordID:         recordID,
		AdminEmail:       m.adminEmail,
		TelefonoContacto: contactPhone,
	}
}

func (m *Mailer) send(ctx context.Context, to []string, subject, html string) error {
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      to,
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("send email %q: %w", subject, err)
	}
	return nil
}

func render(tmpl *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}
