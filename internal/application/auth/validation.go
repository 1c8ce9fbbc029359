package auth

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/domain"
)

// Mensajes de validación del registro, en orden de prioridad.
const (
	msgTelefonoCorto      = "El teléfono debe tener al menos 10 dígitos"
	msgContrasenaCorta    = "La contraseña debe tener al menos 6 caracteres"
	msgContrasenasDistint = "Las contraseñas no coinciden"
)

type registrationValidator struct {
	v *validator.Validate
}

func newRegistrationValidator() *registrationValidator {
	return &registrationValidator{v: validator.New()}
}

// Validate devuelve el primer *domain.ValidationError según la prioridad del formulario:
// campos vacíos, teléfono, contraseña y confirmación.
func (r *registrationValidator) Validate(req dto.RegisterRequest) error {
	err := r.v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	byField := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return &domain.ValidationError{Field: fe.StructField(), Message: domain.MissingFieldsMessage}
		}
		byField[fe.StructField()] = fe.Tag()
	}
	if _, ok := byField["Telefono"]; ok {
		return &domain.ValidationError{Field: "Telefono", Message: msgTelefonoCorto}
	}
	if _, ok := byField["Contrasena"]; ok {
		return &domain.ValidationError{Field: "Contrasena", Message: msgContrasenaCorta}
	}
	if _, ok := byField["ConfirmarContrasena"]; ok {
		return &domain.ValidationError{Field: "ConfirmarContrasena", Message: msgContrasenasDistint}
	}
	return &domain.ValidationError{Field: verrs[0].StructField(), Message: verrs[0].Error()}
}
