package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/application/ports"
	"github.com/jhoicas/restaurante-cliente/internal/domain"
	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/domain/repository"
	"github.com/jhoicas/restaurante-cliente/internal/domain/route"
	"github.com/jhoicas/restaurante-cliente/internal/metrics"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

// RegistrationSuccessMessage mensaje devuelto tras un registro exitoso.
const RegistrationSuccessMessage = "Registro exitoso. Ya puedes iniciar sesión."

// RoleResolver resuelve el rol concreto de un empleado genérico.
type RoleResolver interface {
	Resolve(ctx context.Context, p *entity.Principal) (*entity.RoleClaim, error)
}

// SessionService casos de uso de sesión: login, registro, logout y ruta de aterrizaje.
// Es el único que escribe en el CredentialStore.
type SessionService struct {
	backend   ports.AuthBackend
	resolver  RoleResolver
	store     repository.CredentialStore
	attempts  *AttemptSequencer
	fallback  EmailFallback
	validator *registrationValidator
	log       *logger.Logger
	now       func() time.Time

	// resolveTimeout tope de toda la cascada de roles; <= 0 sin tope propio.
	resolveTimeout time.Duration
}

// DefaultResolveTimeout tope por defecto de la cascada de roles de un login.
const DefaultResolveTimeout = 15 * time.Second

// Option configura el SessionService.
type Option func(*SessionService)

// WithEmailFallback define la política de último recurso. nil la desactiva.
func WithEmailFallback(f EmailFallback) Option {
	return func(s *SessionService) { s.fallback = f }
}

// WithAttemptSequencer comparte el secuenciador entre servicios.
func WithAttemptSequencer(a *AttemptSequencer) Option {
	return func(s *SessionService) { s.attempts = a }
}

// WithResolveTimeout fija el tope de la cascada de roles. Al vencer se aplica la política de correo.
func WithResolveTimeout(d time.Duration) Option {
	return func(s *SessionService) { s.resolveTimeout = d }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *SessionService) { s.now = now }
}

// NewSessionService construye el servicio. Por defecto aplica EmailRoleHeuristic como último recurso.
func NewSessionService(backend ports.AuthBackend, resolver RoleResolver, store repository.CredentialStore, log *logger.Logger, opts ...Option) *SessionService {
	if log == nil {
		log = logger.Nop()
	}
	s := &SessionService{
		backend:   backend,
		resolver:  resolver,
		store:     store,
		attempts:  NewAttemptSequencer(),
		fallback:  EmailRoleHeuristic,
		validator: newRegistrationValidator(),
		log:       log.Component("sesion"),
		now:       time.Now,

		resolveTimeout: DefaultResolveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login autentica contra el backend, persiste token/usuario/userId de inmediato, resuelve el rol
// y lo persiste. Devuelve el sobre de éxito con la ruta de aterrizaje.
func (s *SessionService) Login(ctx context.Context, deviceID, correo, contrasena string) (*dto.LoginResult, error) {
	if correo == "" || contrasena == "" {
		metrics.LoginTotal.WithLabelValues("validacion").Inc()
		return nil, &domain.ValidationError{Field: "correo", Message: domain.MissingFieldsMessage}
	}

	seq := s.attempts.Begin(deviceID)

	p, err := s.backend.Login(ctx, correo, contrasena)
	if err != nil {
		metrics.LoginTotal.WithLabelValues("credenciales").Inc()
		s.log.Device(deviceID).Info().Err(err).Msg("login rechazado por el backend")
		return nil, &domain.AuthenticationError{Message: backendMessage(err, domain.DefaultLoginMessage), Cause: err}
	}
	if p == nil || p.Token == "" {
		metrics.LoginTotal.WithLabelValues("credenciales").Inc()
		return nil, &domain.AuthenticationError{Message: domain.DefaultLoginMessage, Cause: errors.New("respuesta de login sin token")}
	}

	sess := &entity.Session{
		Token:     p.Token,
		UserID:    p.ID,
		RawUser:   p.Raw,
		RoleTag:   entity.RoleNone,
		UpdatedAt: s.now(),
	}
	if err := s.commit(ctx, deviceID, seq, sess); err != nil {
		return nil, err
	}

	tag, err := s.resolveTag(ctx, p)
	if err != nil {
		metrics.LoginTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	sess.RoleTag = tag
	sess.UpdatedAt = s.now()
	if err := s.commit(ctx, deviceID, seq, sess); err != nil {
		return nil, err
	}

	metrics.LoginTotal.WithLabelValues("ok").Inc()
	s.log.Device(deviceID).Info().Str("user_id", p.ID).Str("tipo", tag.String()).Msg("sesión iniciada")

	return &dto.LoginResult{
		Success:     true,
		Data:        p.Raw,
		Tipo:        tag.String(),
		Redireccion: route.LandingFor(tag),
	}, nil
}

func (s *SessionService) commit(ctx context.Context, deviceID string, seq uint64, sess *entity.Session) error {
	err := s.attempts.Commit(deviceID, seq, func() error {
		return s.store.Save(ctx, deviceID, sess)
	})
	switch {
	case errors.Is(err, domain.ErrLoginSuperseded):
		metrics.LoginTotal.WithLabelValues("reemplazado").Inc()
		s.log.Device(deviceID).Warn().Uint64("intento", seq).Msg("intento de login reemplazado; no se persiste")
		return err
	case err != nil:
		metrics.LoginTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

// resolveTag categoría concreta directa; empleado genérico vía cascada y política de correo.
func (s *SessionService) resolveTag(ctx context.Context, p *entity.Principal) (entity.RoleTag, error) {
	if tag := entity.ParseRoleTag(p.Tipo); tag != entity.RoleNone {
		return tag, nil
	}
	if !entity.IsGenericStaff(p.Tipo) {
		s.log.Warn().Str("tipo", p.Tipo).Str("user_id", p.ID).Msg("tipo de usuario desconocido; sesión sin rol")
		return entity.RoleNone, nil
	}

	rctx, cancel := ctx, context.CancelFunc(func() {})
	if s.resolveTimeout > 0 {
		rctx, cancel = context.WithTimeout(ctx, s.resolveTimeout)
	}
	claim, err := s.resolver.Resolve(rctx, p)
	cancel()
	if err == nil {
		return claim.Tag, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return entity.RoleNone, ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn().Str("user_id", p.ID).Dur("tope", s.resolveTimeout).Msg("la cascada de roles excedió su tope")
	}

	if s.fallback != nil {
		if tag := s.fallback(p.Correo); tag.IsStaff() {
			s.log.Warn().Str("user_id", p.ID).Str("tipo", tag.String()).Msg("rol deducido del correo (último recurso)")
			return tag, nil
		}
	}
	s.log.Warn().Err(err).Str("user_id", p.ID).Msg("no se pudo determinar el rol; sesión sin rol")
	return entity.RoleNone, nil
}

// Register valida el formulario antes de cualquier llamada de red y registra al cliente.
func (s *SessionService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	data, err := s.backend.Register(ctx, req)
	if err != nil {
		s.log.Info().Err(err).Msg("registro rechazado por el backend")
		rerr := &domain.RegistrationError{Message: backendMessage(err, domain.DefaultRegistrationMessage), Cause: err}
		var be ports.BackendError
		if errors.As(err, &be) {
			rerr.Status = be.StatusCode()
		}
		return nil, rerr
	}
	return &dto.RegisterResult{Success: true, Data: data, Message: RegistrationSuccessMessage}, nil
}

// Logout borra la sesión del dispositivo y descarta logins en curso. Idempotente.
func (s *SessionService) Logout(ctx context.Context, deviceID string) (string, error) {
	if err := s.ClearSession(ctx, deviceID); err != nil {
		return "", err
	}
	return route.Login, nil
}

// ClearSession borra todos los campos persistidos (también ante un 401 del backend).
func (s *SessionService) ClearSession(ctx context.Context, deviceID string) error {
	err := s.attempts.Invalidate(deviceID, func() error {
		return s.store.Clear(ctx, deviceID)
	})
	if err != nil {
		return fmt.Errorf("borrar sesión: %w", err)
	}
	s.log.Device(deviceID).Debug().Msg("sesión borrada")
	return nil
}

// RedirectTargetFor ruta de aterrizaje para un tipo (sin distinguir mayúsculas).
// El empleado genérico usa el rol concreto persistido si existe.
func (s *SessionService) RedirectTargetFor(ctx context.Context, deviceID, tipo string) (string, error) {
	if tag := entity.ParseRoleTag(tipo); tag != entity.RoleNone {
		return route.LandingFor(tag), nil
	}
	if !entity.IsGenericStaff(tipo) {
		return route.Login, nil
	}
	sess, err := s.store.Load(ctx, deviceID)
	if err != nil {
		return "", err
	}
	return route.LandingFor(sess.Role()), nil
}

// Session sesión persistida del dispositivo (nil si no hay).
func (s *SessionService) Session(ctx context.Context, deviceID string) (*entity.Session, error) {
	return s.store.Load(ctx, deviceID)
}

// CurrentUser registro del backend guardado en el login.
func (s *SessionService) CurrentUser(ctx context.Context, deviceID string) (map[string]any, error) {
	sess, err := s.store.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return sess.User(), nil
}

// UserID id del usuario autenticado ("" si no hay sesión).
func (s *SessionService) UserID(ctx context.Context, deviceID string) (string, error) {
	sess, err := s.store.Load(ctx, deviceID)
	if err != nil || sess == nil {
		return "", err
	}
	return sess.UserID, nil
}

// UserType rol persistido.
func (s *SessionService) UserType(ctx context.Context, deviceID string) (entity.RoleTag, error) {
	sess, err := s.store.Load(ctx, deviceID)
	if err != nil {
		return entity.RoleNone, err
	}
	return sess.Role(), nil
}

// IsAuthenticated hay token persistido.
func (s *SessionService) IsAuthenticated(ctx context.Context, deviceID string) (bool, error) {
	sess, err := s.store.Load(ctx, deviceID)
	if err != nil {
		return false, err
	}
	return sess.Authenticated(), nil
}

// Describe estado de la sesión para las vistas y la CLI.
func (s *SessionService) Describe(ctx context.Context, deviceID string) (*dto.SessionResponse, error) {
	sess, err := s.store.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	out := &dto.SessionResponse{Autenticado: sess.Authenticated(), Redireccion: route.Login}
	if sess == nil {
		return out, nil
	}
	out.UserID = sess.UserID
	out.Tipo = sess.RoleTag.String()
	out.Usuario = sess.RawUser
	if out.Autenticado {
		out.Redireccion = route.LandingFor(sess.RoleTag)
	}
	return out, nil
}

func backendMessage(err error, def string) string {
	var be ports.BackendError
	if errors.As(err, &be) && be.BackendMessage() != "" {
		return be.BackendMessage()
	}
	return def
}
