// Package email implementa el envío de correos vía SMTP con gomail.
package email

import (
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// SMTPConfig parámetros de conexión al servidor de correo.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// GomailMailer envía notificaciones por SMTP.
type GomailMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailMailer crea el mailer.
func NewGomailMailer(cfg SMTPConfig) *GomailMailer {
	return &GomailMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// NotifyAdminOTP envía al administrador el código de acceso mayorista
// generado para un solicitante, con su vencimiento.
func (m *GomailMailer) NotifyAdminOTP(adminEmail, requesterEmail, code string, expiresAt time.Time) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", adminEmail)
	msg.SetHeader("Subject", "Nueva solicitud de acceso mayorista")
	msg.SetBody("text/plain", fmt.Sprintf(
		"El cliente %s solicitó acceso mayorista.\n\n"+
			"Código: %s\n"+
			"Vence: %s\n\n"+
			"Comparta el código con el cliente si corresponde otorgarle acceso.",
		requesterEmail, code, expiresAt.Format("02/01/2006 15:04 MST"),
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo de OTP: %w", err)
	}
	return nil
}
