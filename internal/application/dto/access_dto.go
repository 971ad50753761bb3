package dto

// RequestAccessRequest solicitud de acceso mayorista: dispara el envío del
// código de un solo uso al administrador.
type RequestAccessRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestAccessResponse confirmación de la solicitud.
type RequestAccessResponse struct {
	Message string `json:"message"`
}

// VerifyOTPRequest verificación del código de un solo uso.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// VerifyOTPResponse token de acceso mayorista emitido tras la verificación.
type VerifyOTPResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // segundos
}
