package entity

import "time"

// WholesaleAccessToken registro de una solicitud de acceso mayorista.
// Guarda solo el hash bcrypt del OTP; el código en claro se comparte
// fuera de banda por el administrador.
type WholesaleAccessToken struct {
	ID        string
	Email     string
	OTPHash   string
	ExpiresAt time.Time
	UsedAt    *time.Time // nil = pendiente
	RequestIP string
	UserAgent string
	CreatedAt time.Time
}

// Usable indica si el token sigue pendiente y sin vencer en el instante dado.
func (t *WholesaleAccessToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
