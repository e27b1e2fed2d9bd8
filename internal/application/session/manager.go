// Package session mantiene la sesión del cliente: token, identidad derivada
// de sus claims y verificación de expiración.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
	"github.com/jhoicas/stylashop-pos/pkg/jwt"
)

// Manager dueño único del estado de sesión. Los demás componentes lo leen con
// Check, Token o Current y se enteran de los cambios con Subscribe.
type Manager struct {
	store   repository.TokenStore
	gateway repository.AuthGateway
	now     func() time.Time
	log     zerolog.Logger

	mu      sync.Mutex
	state   entity.Session
	timer   *time.Timer
	subs    map[int]chan entity.Session
	nextSub int
}

// Option configura el Manager.
type Option func(*Manager)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithGateway habilita LoginWithCredentials y el enriquecimiento con auth/profile.
func WithGateway(g repository.AuthGateway) Option {
	return func(m *Manager) { m.gateway = g }
}

// NewManager construye el gestor sin sesión; Restore carga la persistida.
func NewManager(store repository.TokenStore, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		log:   log,
		subs:  make(map[int]chan entity.Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ── Ciclo de vida ─────────────────────────────────────────────────────────────

// Restore toma el token persistido al iniciar el proceso. Un token expirado o
// malformado se borra y la sesión arranca sin autenticar, sin pasar nunca por
// un estado autenticado.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("session: cargar token: %w", err)
	}
	if token == "" {
		return nil
	}
	next, err := m.build(token)
	if err != nil || m.expiredAt(next.ExpiresAt) {
		m.log.Info().Err(err).Msg("token persistido inválido o expirado; se descarta")
		if cerr := m.store.Clear(ctx); cerr != nil {
			m.log.Warn().Err(cerr).Msg("no se pudo borrar el token persistido")
		}
		return nil
	}
	m.apply(next)
	m.enrich(ctx, token)
	return nil
}

// Login adopta el token. Si no se puede decodificar devuelve ErrInvalidToken y
// el estado previo queda intacto. Un token ya expirado cierra la sesión
// y devuelve ErrTokenExpired.
func (m *Manager) Login(ctx context.Context, token string) error {
	next, err := m.build(token)
	if err != nil {
		return err
	}
	if m.expiredAt(next.ExpiresAt) {
		m.Logout(ctx)
		return domain.ErrTokenExpired
	}
	if err := m.store.Save(ctx, token); err != nil {
		return fmt.Errorf("session: guardar token: %w", err)
	}
	m.apply(next)
	m.log.Info().
		Int64("user_id", next.Identity.UserID).
		Str("role", next.Identity.Role).
		Time("expires_at", next.ExpiresAt).
		Msg("sesión iniciada")
	m.enrich(ctx, token)
	return nil
}

// LoginWithCredentials obtiene un token del backend y lo adopta con Login.
// Ante credenciales rechazadas la sesión persistida no cambia.
func (m *Manager) LoginWithCredentials(ctx context.Context, username, password string) error {
	if m.gateway == nil {
		return fmt.Errorf("session: login con credenciales sin backend configurado")
	}
	token, err := m.gateway.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return m.Login(ctx, token)
}

// Logout borra el token persistido y vacía la sesión. Siempre termina; un
// fallo del almacenamiento solo se registra.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	wasAuthenticated := m.state.Authenticated()
	m.state = entity.Session{}
	m.disarmLocked()
	m.notifyLocked()
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("no se pudo borrar el token persistido")
	}
	if wasAuthenticated {
		m.log.Info().Msg("sesión cerrada")
	}
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// IsExpired decodifica solo exp; cualquier fallo cuenta como expirado.
func (m *Manager) IsExpired(token string) bool {
	return jwt.IsExpired(token, m.now())
}

// Current devuelve una copia del estado sin verificar expiración.
func (m *Manager) Current() entity.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Check es la verificación pasiva de cada navegación protegida: sin sesión
// devuelve ErrNoSession; con el token vencido cierra la sesión y devuelve
// ErrTokenExpired.
func (m *Manager) Check(ctx context.Context) (entity.Session, error) {
	m.mu.Lock()
	current := m.state
	m.mu.Unlock()

	if !current.Authenticated() {
		return entity.Session{}, domain.ErrNoSession
	}
	if m.expiredAt(current.ExpiresAt) {
		m.expire(ctx, current.Token)
		return entity.Session{}, domain.ErrTokenExpired
	}
	return current, nil
}

// Token entrega el token vigente para una petición autenticada.
func (m *Manager) Token() (string, error) {
	s, err := m.Check(context.Background())
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

// RefreshUserData vuelve a pedir el perfil y lo mezcla en la identidad.
// Sin token vigente no hace nada.
func (m *Manager) RefreshUserData(ctx context.Context) error {
	s, err := m.Check(ctx)
	if err != nil {
		return nil
	}
	if m.gateway == nil {
		return nil
	}
	return m.fetchProfile(ctx, s.Token)
}

// Subscribe devuelve un canal con la última sesión conocida (buffer 1: un
// lector lento solo se pierde estados intermedios) y la función para darse de baja.
func (m *Manager) Subscribe() (<-chan entity.Session, func()) {
	ch := make(chan entity.Session, 1)
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.state
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			close(ch)
			m.mu.Unlock()
		})
	}
}

// ── Internos ──────────────────────────────────────────────────────────────────

// build decodifica el token y arma la sesión sin tocar el estado.
func (m *Manager) build(token string) (entity.Session, error) {
	claims, err := jwt.Decode(token)
	if err != nil {
		return entity.Session{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return entity.Session{}, domain.ErrInvalidToken
	}
	return entity.Session{
		Token:     token,
		Identity:  entity.ResolveIdentity(claims),
		ExpiresAt: exp.Time,
	}, nil
}

func (m *Manager) expiredAt(exp time.Time) bool {
	return !m.now().Before(exp)
}

func (m *Manager) apply(next entity.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = next
	m.armLocked(next.Token, next.ExpiresAt)
	m.notifyLocked()
}

// expire cierra la sesión solo si sigue siendo la del token indicado.
func (m *Manager) expire(ctx context.Context, token string) {
	m.mu.Lock()
	same := m.state.Token == token
	m.mu.Unlock()
	if !same {
		return
	}
	m.log.Info().Msg("token expirado; cerrando sesión")
	m.Logout(ctx)
}

// armLocked programa el cierre al llegar exp, para que la sesión no siga
// autenticada después de vencer aunque nadie la consulte.
func (m *Manager) armLocked(token string, exp time.Time) {
	m.disarmLocked()
	d := exp.Sub(m.now())
	if d < 0 {
		d = 0
	}
	m.timer = time.AfterFunc(d, func() { m.expire(context.Background(), token) })
}

func (m *Manager) disarmLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) notifyLocked() {
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- m.state
	}
}

// enrich pide el perfil tras adoptar un token; un fallo no invalida la sesión.
func (m *Manager) enrich(ctx context.Context, token string) {
	if m.gateway == nil {
		return
	}
	if err := m.fetchProfile(ctx, token); err != nil {
		m.log.Warn().Err(err).Msg("perfil no disponible; se usan los claims del token")
	}
}

func (m *Manager) fetchProfile(ctx context.Context, token string) error {
	user, err := m.gateway.Profile(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("session: perfil vacío")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Token != token {
		return nil
	}
	m.state.Identity = m.state.Identity.Merge(entity.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	})
	m.notifyLocked()
	return nil
}
