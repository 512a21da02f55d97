// Package model contains the persisted submission document and its parts.
package model

import (
	"encoding/json"
	"time"
)

// Estado is the review lifecycle of a submission. This service only ever
// creates records in EstadoRecibido; later transitions belong to the admin
// review flow.
type Estado string

const (
	EstadoRecibido   Estado = "Recibido"
	EstadoEnRevision Estado = "En Revision"
	EstadoAprobado   Estado = "Aprobado"
	EstadoRechazado  Estado = "Rechazado"
)

// Adjunto is one uploaded attachment: the logical document label it fills,
// the filename the submitter used, and the resolved public URL.
type Adjunto struct {
	Documento string `json:"documento"`
	Nombre    string `json:"nombre"`
	URL       string `json:"url"`
	Tipo      string `json:"tipo,omitempty"`
}

// Submission is the document appended to a collection for one registration.
// Submitter-provided scalars live in Campos and are flattened to the top
// level of the JSON document; tipo, fechaRegistro and estado are always
// server-assigned and win over any client-supplied value of the same name.
type Submission struct {
	Tipo             string
	FechaRegistro    time.Time
	Estado           Estado
	Campos           map[string]string
	ArchivosAdjuntos []Adjunto
}

// NewSubmission stamps a submission with its type, the server clock and the
// initial estado.
func NewSubmission(tipo string, campos map[string]string) *Submission {
	return &Submission{
		Tipo:          tipo,
		FechaRegistro: time.Now().UTC(),
		Estado:        EstadoRecibido,
		Campos:        campos,
	}
}

// Campo returns a submitter-provided field value, or "" when absent.
func (s *Submission) Campo(name string) string {
	return s.Campos[name]
}

// MarshalJSON flattens Campos into the document and then overwrites the
// reserved keys, so a form field named "estado" can never leak into the
// persisted record.
func (s *Submission) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.Campos)+4)
	for k, v := range s.Campos {
		doc[k] = v
	}
	doc["tipo"] = s.Tipo
	doc["fechaRegistro"] = s.FechaRegistro.Format(time.RFC3339)
	doc["estado"] = s.Estado
	adjuntos := s.ArchivosAdjuntos
	if adjuntos == nil {
		adjuntos = []Adjunto{}
	}
	doc["archivosAdjuntos"] = adjuntos
	return json.Marshal(doc)
}
