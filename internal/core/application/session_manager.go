package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/thanhpk/randstr"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/securemem"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/stats"
)

// SessionManager owns the lifetime of the decrypted mnemonic. A session is
// opened right after a successful unlock and closed by an explicit lock, by
// the idle timeout or by a new unlock replacing it. The session record is
// persisted so that expiry is observable across processes, while the
// mnemonic itself only lives in memory next to the session id and is wiped
// on every close.
type SessionManager interface {
	Open(
		ctx context.Context,
		ownerAddress string,
		secret *securemem.Secret,
	) (*UnlockReply, error)
	CurrentSession(ctx context.Context) (*domain.Session, error)
	IsAuthenticated(ctx context.Context) bool
	Touch(ctx context.Context) error
	CloseCurrent(ctx context.Context, reason string) error
	WithMnemonic(ctx context.Context, fn func(mnemonic []string) error) error
	VerifySessionToken(ctx context.Context, token string) (*domain.Session, error)
	OnSessionExpired(fn func(*domain.Session))
	Start()
	Stop()
}

type sessionManager struct {
	repoManager ports.RepoManager
	notifier    *auditNotifier
	sessionTTL  time.Duration
	interval    *time.Ticker
	quitChan    chan int
	signingKey  []byte
	secrets     map[string]*securemem.Secret
	onExpired   []func(*domain.Session)
	mutex       *sync.RWMutex
}

// NewSessionManager returns a SessionManager with the given idle timeout
// that checks for expired sessions every monitorInterval. Session tokens
// are signed with a key generated at startup, a restart invalidates them
// along with the in-memory secrets.
func NewSessionManager(
	repoManager ports.RepoManager,
	pubsub ports.SecurePubSub,
	sessionTTL, monitorInterval time.Duration,
) SessionManager {
	return &sessionManager{
		repoManager: repoManager,
		notifier:    &auditNotifier{pubsub},
		sessionTTL:  sessionTTL,
		interval:    time.NewTicker(monitorInterval),
		quitChan:    make(chan int),
		signingKey:  randstr.Bytes(32),
		secrets:     make(map[string]*securemem.Secret),
		onExpired:   make([]func(*domain.Session), 0),
		mutex:       &sync.RWMutex{},
	}
}

func (m *sessionManager) Open(
	ctx context.Context,
	ownerAddress string,
	secret *securemem.Secret,
) (*UnlockReply, error) {
	if secret == nil || secret.IsEmpty() {
		return nil, domain.ErrMustBeUnlocked
	}

	// a new unlock supersedes any session still active
	previous, err := m.activeSession(ctx)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		if err := m.closeSession(
			ctx, previous, domain.SessionClosedByReplacement,
		); err != nil {
			return nil, err
		}
	}

	session, err := domain.NewSession(ownerAddress, m.sessionTTL)
	if err != nil {
		return nil, err
	}
	if err := m.repoManager.SessionRepository().AddSession(ctx, session); err != nil {
		return nil, err
	}

	m.storeSecret(session.ID, secret)

	token, err := m.signToken(session)
	if err != nil {
		m.dropSecret(session.ID)
		return nil, err
	}

	log.Debugf("opened session %s for owner %s", session.ID, ownerAddress)
	return &UnlockReply{
		SessionID:    session.ID,
		SessionToken: token,
		ExpiresAt:    session.ExpiresAt(),
	}, nil
}

func (m *sessionManager) CurrentSession(ctx context.Context) (*domain.Session, error) {
	return m.activeSession(ctx)
}

func (m *sessionManager) IsAuthenticated(ctx context.Context) bool {
	session, err := m.activeSession(ctx)
	return err == nil && session != nil
}

func (m *sessionManager) Touch(ctx context.Context) error {
	session, err := m.activeSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotAuthenticated
	}

	return m.repoManager.SessionRepository().UpdateSession(
		ctx, session.ID,
		func(s *domain.Session) (*domain.Session, error) {
			if err := s.Touch(time.Now()); err != nil {
				return nil, err
			}
			return s, nil
		},
	)
}

func (m *sessionManager) CloseCurrent(ctx context.Context, reason string) error {
	session, err := m.activeSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotAuthenticated
	}
	return m.closeSession(ctx, session, reason)
}

func (m *sessionManager) WithMnemonic(
	ctx context.Context, fn func(mnemonic []string) error,
) error {
	session, err := m.activeSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotAuthenticated
	}

	secret := m.secret(session.ID)
	if secret == nil || secret.IsEmpty() {
		return ErrNotAuthenticated
	}

	return secret.WithBytes(func(buf []byte) error {
		return fn(strings.Split(string(buf), " "))
	})
}

func (m *sessionManager) VerifySessionToken(
	ctx context.Context, tokenString string,
) (*domain.Session, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.signingKey, nil
		},
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSessionToken
	}

	session, err := m.activeSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil || session.ID != claims.Id {
		return nil, ErrInvalidSessionToken
	}
	return session, nil
}

func (m *sessionManager) OnSessionExpired(fn func(*domain.Session)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.onExpired = append(m.onExpired, fn)
}

// Start runs the monitor which periodically closes the sessions whose idle
// timeout has elapsed
func (m *sessionManager) Start() {
	log.Debug("start session monitor")
	for {
		select {
		case <-m.interval.C:
			m.checkExpiredSessions()
		case <-m.quitChan:
			log.Debug("stop session monitor")
			m.interval.Stop()
			return
		}
	}
}

// Stop stops the monitor
func (m *sessionManager) Stop() {
	m.quitChan <- 1
}

func (m *sessionManager) checkExpiredSessions() {
	ctx := context.Background()
	sessions, err := m.repoManager.SessionRepository().GetAllSessions(ctx)
	if err != nil {
		log.WithError(err).Warn("an error occured while checking for expired sessions")
		return
	}

	now := time.Now()
	for _, session := range sessions {
		if session.IsExpired(now) {
			m.expireSession(ctx, session)
		}
	}
}

// activeSession returns the session currently active, if any. Sessions
// found past their deadline are expired on the way, so that expiry is
// detected even if the monitor is not running in this process.
func (m *sessionManager) activeSession(ctx context.Context) (*domain.Session, error) {
	sessions, err := m.repoManager.SessionRepository().GetAllSessions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, session := range sessions {
		// a session may have been closed by another process, the secret
		// held for it must not outlive the record
		if session.IsClosed() {
			m.dropSecret(session.ID)
			continue
		}
		if session.IsExpired(now) {
			m.expireSession(ctx, session)
			continue
		}
		if session.IsActive(now) {
			return session, nil
		}
	}
	return nil, nil
}

// expireSession transitions the given session to expired. The update on the
// persisted record is the gate that guarantees the expiry hooks run exactly
// once, no matter how many concurrent observers detect the deadline.
func (m *sessionManager) expireSession(ctx context.Context, session *domain.Session) {
	changed := false
	if err := m.repoManager.SessionRepository().UpdateSession(
		ctx, session.ID,
		func(s *domain.Session) (*domain.Session, error) {
			changed = s.Close(time.Now(), domain.SessionClosedByExpiry)
			*session = *s
			return s, nil
		},
	); err != nil {
		log.WithError(err).Warnf(
			"an error occured while closing expired session %s", session.ID,
		)
		return
	}
	if !changed {
		return
	}

	m.dropSecret(session.ID)
	stats.SessionsExpired.Inc()
	log.Infof("session %s expired", session.ID)

	m.notifier.notify(newAuditEvent(
		TopicSessionExpired, session.OwnerAddress, map[string]interface{}{
			"session_id": session.ID,
		},
	))

	for _, fn := range m.expiredHandlers() {
		fn(session)
	}
}

func (m *sessionManager) closeSession(
	ctx context.Context, session *domain.Session, reason string,
) error {
	changed := false
	if err := m.repoManager.SessionRepository().UpdateSession(
		ctx, session.ID,
		func(s *domain.Session) (*domain.Session, error) {
			changed = s.Close(time.Now(), reason)
			return s, nil
		},
	); err != nil {
		return err
	}
	if changed {
		m.dropSecret(session.ID)
		log.Debugf("closed session %s for reason %s", session.ID, reason)
	}
	return nil
}

func (m *sessionManager) signToken(session *domain.Session) (string, error) {
	// the deadline moves with every touch, so the token carries no expiry
	// of its own and is checked against the persisted record instead
	claims := jwt.StandardClaims{
		Id:       session.ID,
		Subject:  session.OwnerAddress,
		IssuedAt: session.CreatedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

func (m *sessionManager) storeSecret(id string, secret *securemem.Secret) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.secrets[id] = secret
}

func (m *sessionManager) secret(id string) *securemem.Secret {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.secrets[id]
}

func (m *sessionManager) dropSecret(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if secret, ok := m.secrets[id]; ok {
		secret.Destroy()
		delete(m.secrets, id)
	}
}

func (m *sessionManager) expiredHandlers() []func(*domain.Session) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.onExpired
}
