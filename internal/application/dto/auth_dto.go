package dto

import "encoding/json"

// LoginRequest entrada del formulario de login.
type LoginRequest struct {
	Correo     string `json:"correo" form:"correo"`
	Contrasena string `json:"contrasena" form:"contrasena"`
}

// LoginResult sobre de éxito del login: datos del backend, rol persistido y ruta de aterrizaje.
type LoginResult struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data"`
	Tipo        string          `json:"tipo"`
	Redireccion string          `json:"redireccion"`
}

// RegisterRequest entrada del formulario de registro de clientes.
// ConfirmarContrasena nunca se envía al backend.
type RegisterRequest struct {
	Nombre              string `json:"nombre" form:"nombre" validate:"required"`
	Apellidos           string `json:"apellidos" form:"apellidos" validate:"required"`
	Telefono            string `json:"telefono" form:"telefono" validate:"required,min=10"`
	Correo              string `json:"correo" form:"correo" validate:"required"`
	Contrasena          string `json:"contrasena" form:"contrasena" validate:"required,min=6"`
	ConfirmarContrasena string `json:"-" form:"confirmarContrasena" validate:"required,eqfield=Contrasena"`
}

// registerForm permite leer confirmarContrasena desde JSON sin reenviarla al backend.
type registerForm struct {
	Nombre              string `json:"nombre"`
	Apellidos           string `json:"apellidos"`
	Telefono            string `json:"telefono"`
	Correo              string `json:"correo"`
	Contrasena          string `json:"contrasena"`
	ConfirmarContrasena string `json:"confirmarContrasena"`
}

// UnmarshalJSON acepta el campo confirmarContrasena del formulario.
func (r *RegisterRequest) UnmarshalJSON(b []byte) error {
	var f registerForm
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = RegisterRequest(f)
	return nil
}

// RegisterResult sobre de éxito del registro.
type RegisterResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message"`
}

// SessionResponse estado actual de la sesión del dispositivo.
type SessionResponse struct {
	Autenticado bool            `json:"autenticado"`
	UserID      string          `json:"userId,omitempty"`
	Tipo        string          `json:"tipo,omitempty"`
	Usuario     json.RawMessage `json:"usuario,omitempty"`
	Redireccion string          `json:"redireccion"`
}

// LogoutResponse respuesta de logout para clientes JSON.
type LogoutResponse struct {
	Success     bool   `json:"success"`
	Redireccion string `json:"redireccion"`
}

// ViewResponse vista renderizada (pública o de una sección protegida).
type ViewResponse struct {
	Arbol       string         `json:"arbol"`
	Seccion     string         `json:"seccion"`
	Tipo        string         `json:"tipo"`
	Perfil      map[string]any `json:"perfil,omitempty"`
	Mensaje     string         `json:"mensaje,omitempty"`
	Redireccion string         `json:"redireccion,omitempty"`
}
