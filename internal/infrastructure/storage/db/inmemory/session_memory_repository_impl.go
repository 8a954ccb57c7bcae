package inmemory

import (
	"context"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
)

type sessionRepositoryImpl struct {
	store *sessionInmemoryStore
}

// NewSessionRepositoryImpl returns a new inmemory SessionRepository
// implementation.
func NewSessionRepositoryImpl(store *sessionInmemoryStore) domain.SessionRepository {
	return sessionRepositoryImpl{store}
}

func (r sessionRepositoryImpl) AddSession(
	_ context.Context, session *domain.Session,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	sessionCopy := *session
	r.store.sessions[session.ID] = &sessionCopy

	return nil
}

func (r sessionRepositoryImpl) GetSession(
	_ context.Context, id string,
) (*domain.Session, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	sessionCopy := *session
	return &sessionCopy, nil
}

func (r sessionRepositoryImpl) GetAllSessions(
	_ context.Context,
) ([]*domain.Session, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	sessions := make([]*domain.Session, 0, len(r.store.sessions))
	for _, session := range r.store.sessions {
		sessionCopy := *session
		sessions = append(sessions, &sessionCopy)
	}

	return sessions, nil
}

func (r sessionRepositoryImpl) UpdateSession(
	_ context.Context,
	id string,
	updateFn func(s *domain.Session) (*domain.Session, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}

	// updateFn works on a copy, an error leaves the stored record untouched
	sessionCopy := *session
	updatedSession, err := updateFn(&sessionCopy)
	if err != nil {
		return err
	}

	updatedCopy := *updatedSession
	r.store.sessions[id] = &updatedCopy

	return nil
}

func (r sessionRepositoryImpl) DeleteAllSessions(_ context.Context) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.sessions = map[string]*domain.Session{}

	return nil
}
