package form

// Slot is one expected file attachment position in a form.
type Slot struct {
	Name     string
	Label    string
	Required bool
}

// Definition is the static description of one supplier form: which scalar
// fields must be present, which file slots exist, and where the resulting
// record and attachments go.
type Definition struct {
	// Tipo is the discriminator stamped on every persisted record.
	Tipo string
	// Collection names the record-store collection the document is appended to.
	Collection string
	// Category partitions attachment object keys per form type.
	Category string
	// IdentityField holds the submitter's identity number, used as the
	// storage-path partition key.
	IdentityField string
	// DisplayField is the human name used in notification emails.
	DisplayField string
	// Required lists scalar fields in the order they are validated.
	Required []string
	// Slots lists expected file attachments in declaration order.
	Slots []Slot
}

// Natural is the Persona Natural registration form.
var Natural = Definition{
	Tipo:          "Persona Natural",
	Collection:    "proveedores_naturales",
	Category:      "natural",
	IdentityField: "cedula",
	DisplayField:  "nombreCompleto",
	Required: []string{
		"nombreCompleto",
		"cedula",
		"email",
		"telefono",
		"entidadBancaria",
		"numeroCuenta",
	},
	Slots: []Slot{
		{Name: "documentoIdentidad", Label: "Documento de Identidad", Required: true},
		{Name: "rut", Label: "RUT", Required: true},
		{Name: "certificacionBancaria", Label: "Certificacion Bancaria", Required: true},
		{Name: "declaracionJuramentada", Label: "Declaracion Juramentada", Required: false},
		{Name: "seguridadSocial", Label: "Seguridad Social", Required: false},
	},
}

// Juridica is the Persona Jurídica registration form.
var Juridica = Definition{
	Tipo:          "Persona Jurídica",
	Collection:    "proveedores_juridicos",
	Category:      "juridica",
	IdentityField: "nit",
	DisplayField:  "razonSocial",
	Required: []string{
		"razonSocial",
		"nit",
		"nombreRepresentante",
		"cedulaRepresentante",
		"email",
		"telefono",
		"entidadBancaria",
		"numeroCuenta",
	},
	Slots: []Slot{
		{Name: "camaraComercio", Label: "Camara de Comercio", Required: true},
		{Name: "rut", Label: "RUT", Required: true},
		{Name: "cedulaRepresentante", Label: "Cedula Representante Legal", Required: true},
		{Name: "certificacionBancaria", Label: "Certificacion Bancaria", Required: true},
		{Name: "estadosFinancieros", Label: "Estados Financieros", Required: false},
		{Name: "certificacionSeguridadSocial", Label: "Certificacion Seguridad Social", Required: false},
	},
}
