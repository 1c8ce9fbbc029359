package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Códigos de error expuestos por el cliente web.
const (
	CodeValidation           = "VALIDATION"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeRegistrationRejected = "REGISTRATION_REJECTED"
	CodeLoginSuperseded      = "LOGIN_SUPERSEDED"
	CodeTooManyRequests      = "TOO_MANY_REQUESTS"
	CodeNotFound             = "NOT_FOUND"
	CodeInternal             = "INTERNAL"
	CodeBackendUnavailable   = "BACKEND_UNAVAILABLE"
)
