package access

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/pkg/jwt"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens []*entity.WholesaleAccessToken
}

func (r *fakeTokenRepo) Create(t *entity.WholesaleAccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *t
	r.tokens = append(r.tokens, &c)
	return nil
}

func (r *fakeTokenRepo) GetLatestPending(email string, now time.Time) (*entity.WholesaleAccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.WholesaleAccessToken
	for _, t := range r.tokens {
		if t.Email != email || !t.Usable(now) {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (r *fakeTokenRepo) MarkUsed(id string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.ID == id {
			u := usedAt
			t.UsedAt = &u
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeTokenRepo) DeleteExpired(now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tokens[:0]
	deleted := 0
	for _, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return deleted, nil
}

type fakeMailer struct {
	admin, requester, code string
	calls                  int
	err                    error
}

func (m *fakeMailer) NotifyAdminOTP(adminEmail, requesterEmail, code string, _ time.Time) error {
	m.calls++
	m.admin = adminEmail
	m.requester = requesterEmail
	m.code = code
	return m.err
}

var accessNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeTokenRepo, mailer *fakeMailer) *UseCase {
	uc := NewUseCase(repo, mailer, Config{
		JWTSecret:  "secreto-de-prueba",
		ExpMinutes: 120,
		Issuer:     "catalogo-api",
		AdminEmail: "admin@example.com",
	}, logger.Nop())
	uc.now = func() time.Time { return accessNow }
	uc.genCode = func() (string, error) { return "123456", nil }
	return uc
}

func TestRequestAccess_GuardaHashYNotificaAdmin(t *testing.T) {
	repo := &fakeTokenRepo{}
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, mailer)

	resp, err := uc.RequestAccess(dto.RequestAccessRequest{Email: "cliente@example.com"}, "10.0.0.1", "curl/8.0")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message)

	require.Len(t, repo.tokens, 1)
	stored := repo.tokens[0]
	assert.Equal(t, "cliente@example.com", stored.Email)
	assert.Equal(t, "10.0.0.1", stored.RequestIP)
	assert.NotEqual(t, "123456", stored.OTPHash) // nunca en claro
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.OTPHash), []byte("123456")))
	assert.Equal(t, accessNow.Add(2*time.Hour), stored.ExpiresAt)

	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, "admin@example.com", mailer.admin)
	assert.Equal(t, "cliente@example.com", mailer.requester)
	assert.Equal(t, "123456", mailer.code)
}

func TestRequestAccess_FallaDeCorreoNoPierdeLaSolicitud(t *testing.T) {
	repo := &fakeTokenRepo{}
	mailer := &fakeMailer{err: errors.New("smtp caído")}
	uc := newTestUseCase(repo, mailer)

	_, err := uc.RequestAccess(dto.RequestAccessRequest{Email: "cliente@example.com"}, "", "")
	require.NoError(t, err)
	assert.Len(t, repo.tokens, 1)
}

func TestRequestAccess_EmailVacio(t *testing.T) {
	uc := newTestUseCase(&fakeTokenRepo{}, &fakeMailer{})
	_, err := uc.RequestAccess(dto.RequestAccessRequest{}, "", "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestVerifyOTP_EmiteTokenYConsumeElCodigo(t *testing.T) {
	repo := &fakeTokenRepo{}
	uc := newTestUseCase(repo, &fakeMailer{})

	_, err := uc.RequestAccess(dto.RequestAccessRequest{Email: "cliente@example.com"}, "", "")
	require.NoError(t, err)

	resp, err := uc.VerifyOTP(dto.VerifyOTPRequest{Email: "cliente@example.com", Code: "123456"})
	require.NoError(t, err)
	assert.Equal(t, 120*60, resp.ExpiresIn)

	email, err := jwt.Parse("secreto-de-prueba", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "cliente@example.com", email)

	// Segundo canje del mismo código: rechazado.
	_, err = uc.VerifyOTP(dto.VerifyOTPRequest{Email: "cliente@example.com", Code: "123456"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyOTP_CodigoIncorrecto(t *testing.T) {
	repo := &fakeTokenRepo{}
	uc := newTestUseCase(repo, &fakeMailer{})

	_, err := uc.RequestAccess(dto.RequestAccessRequest{Email: "cliente@example.com"}, "", "")
	require.NoError(t, err)

	_, err = uc.VerifyOTP(dto.VerifyOTPRequest{Email: "cliente@example.com", Code: "000000"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyOTP_SinSolicitudPendiente(t *testing.T) {
	uc := newTestUseCase(&fakeTokenRepo{}, &fakeMailer{})
	_, err := uc.VerifyOTP(dto.VerifyOTPRequest{Email: "nadie@example.com", Code: "123456"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyOTP_CodigoVencido(t *testing.T) {
	repo := &fakeTokenRepo{}
	uc := newTestUseCase(repo, &fakeMailer{})

	_, err := uc.RequestAccess(dto.RequestAccessRequest{Email: "cliente@example.com"}, "", "")
	require.NoError(t, err)

	uc.now = func() time.Time { return accessNow.Add(3 * time.Hour) }
	_, err = uc.VerifyOTP(dto.VerifyOTPRequest{Email: "cliente@example.com", Code: "123456"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
