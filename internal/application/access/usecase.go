// Package access implementa el acceso mayorista: solicitud de un código de un
// solo uso notificado al administrador y su canje por un JWT de corta vida.
package access

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/jwt"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// Mailer notifica al administrador el código generado; el administrador lo
// comparte con el solicitante fuera de banda.
type Mailer interface {
	NotifyAdminOTP(adminEmail, requesterEmail, code string, expiresAt time.Time) error
}

// Config parámetros del flujo de acceso mayorista.
type Config struct {
	JWTSecret  string
	ExpMinutes int
	Issuer     string
	AdminEmail string
}

// UseCase casos de uso de acceso mayorista.
type UseCase struct {
	tokens  repository.AccessTokenRepository
	mailer  Mailer
	cfg     Config
	log     *logger.Logger
	now     func() time.Time
	genCode func() (string, error)
}

// NewUseCase crea el caso de uso de acceso mayorista.
func NewUseCase(tokens repository.AccessTokenRepository, mailer Mailer, cfg Config, log *logger.Logger) *UseCase {
	if cfg.ExpMinutes <= 0 {
		cfg.ExpMinutes = 120
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		tokens:  tokens,
		mailer:  mailer,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
		genCode: generateCode,
	}
}

// RequestAccess genera un código de 6 dígitos, guarda solo su hash bcrypt y
// notifica al administrador. La respuesta es genérica: no revela si el email
// ya solicitó acceso antes.
func (uc *UseCase) RequestAccess(in dto.RequestAccessRequest, requestIP, userAgent string) (*dto.RequestAccessResponse, error) {
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email requerido", domain.ErrValidation)
	}

	code, err := uc.genCode()
	if err != nil {
		return nil, fmt.Errorf("generar código: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear código: %w", err)
	}

	now := uc.now()
	token := &entity.WholesaleAccessToken{
		ID:        uuid.New().String(),
		Email:     in.Email,
		OTPHash:   string(hash),
		ExpiresAt: now.Add(time.Duration(uc.cfg.ExpMinutes) * time.Minute),
		RequestIP: requestIP,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	if err := uc.tokens.Create(token); err != nil {
		return nil, fmt.Errorf("guardar solicitud de acceso: %w", err)
	}

	if err := uc.mailer.NotifyAdminOTP(uc.cfg.AdminEmail, in.Email, code, token.ExpiresAt); err != nil {
		// La solicitud queda registrada; el administrador puede consultarla.
		uc.log.Error().Err(err).Str("email", in.Email).
			Msg("no se pudo notificar el código al administrador")
	}

	uc.log.Info().Str("email", in.Email).Str("ip", requestIP).
		Msg("solicitud de acceso mayorista registrada")
	return &dto.RequestAccessResponse{
		Message: "Solicitud registrada. El administrador le hará llegar su código.",
	}, nil
}

// VerifyOTP canjea el código pendiente más reciente del email por un JWT de
// acceso mayorista. El código es de un solo uso: se marca consumido antes de
// emitir el token.
func (uc *UseCase) VerifyOTP(in dto.VerifyOTPRequest) (*dto.VerifyOTPResponse, error) {
	if in.Email == "" || in.Code == "" {
		return nil, fmt.Errorf("%w: email y code requeridos", domain.ErrValidation)
	}

	now := uc.now()
	pending, err := uc.tokens.GetLatestPending(in.Email, now)
	if err != nil {
		return nil, fmt.Errorf("buscar solicitud pendiente: %w", err)
	}
	if pending == nil {
		return nil, fmt.Errorf("%w: código inválido o vencido", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pending.OTPHash), []byte(in.Code)); err != nil {
		return nil, fmt.Errorf("%w: código inválido o vencido", domain.ErrUnauthorized)
	}
	if err := uc.tokens.MarkUsed(pending.ID, now); err != nil {
		return nil, fmt.Errorf("marcar código como usado: %w", err)
	}

	signed, err := jwt.Generate(uc.cfg.JWTSecret, in.Email, uc.cfg.Issuer, uc.cfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}

	uc.log.Info().Str("email", in.Email).Msg("acceso mayorista otorgado")
	return &dto.VerifyOTPResponse{
		Token:     signed,
		ExpiresIn: uc.cfg.ExpMinutes * 60,
	}, nil
}

// generateCode devuelve un código numérico de 6 dígitos con crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
