package form

import "fmt"

// Country handling: a domestic submitter picks departamento/ciudad from the
// portal's selects; choosing the "Otro" sentinel switches the form to manual
// country/city entry.
const (
	fieldPais       = "pais"
	paisDomestico   = "Colombia"
	paisCentinela   = "Otro"
	fieldDepto      = "departamento"
	fieldCiudad     = "ciudad"
	fieldPaisOtro   = "paisOtro"
	fieldCiudadOtro = "ciudadOtro"
)

// FieldError reports the first missing or empty scalar field.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("El campo '%s' es obligatorio.", e.Field)
}

// SlotError reports the first missing required file slot, by its label.
type SlotError struct {
	Label string
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("El documento '%s' es obligatorio.", e.Label)
}

// Validate checks a parsed submission against the definition. It fails fast:
// the first violation found is the one reported, so the submitter gets a
// single actionable message per attempt. Order is fixed: required scalars,
// then the country-conditional fields, then file slots.
func Validate(def Definition, data *Data) error {
	for _, field := range def.Required {
		if data.Fields[field] == "" {
			return &FieldError{Field: field}
		}
	}
	switch data.Fields[fieldPais] {
	case paisDomestico:
		for _, field := range []string{fieldDepto, fieldCiudad} {
			if data.Fields[field] == "" {
				return &FieldError{Field: field}
			}
		}
	case paisCentinela:
		for _, field := range []string{fieldPaisOtro, fieldCiudadOtro} {
			if data.Fields[field] == "" {
				return &FieldError{Field: field}
			}
		}
	}
	for _, slot := range def.Slots {
		if !slot.Required {
			continue
		}
		if _, ok := data.Files[slot.Name]; !ok {
			return &SlotError{Label: slot.Label}
		}
	}
	return nil
}
