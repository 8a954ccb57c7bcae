package dbbadger

import (
	"context"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

type sessionRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSessionRepositoryImpl returns a badger implementation of the domain
// SessionRepository interface.
func NewSessionRepositoryImpl(store *badgerhold.Store) domain.SessionRepository {
	return sessionRepositoryImpl{store}
}

func (r sessionRepositoryImpl) AddSession(
	_ context.Context, session *domain.Session,
) error {
	return r.store.Insert(session.ID, *session)
}

func (r sessionRepositoryImpl) GetSession(
	_ context.Context, id string,
) (*domain.Session, error) {
	var session domain.Session
	if err := r.store.Get(id, &session); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return &session, nil
}

func (r sessionRepositoryImpl) GetAllSessions(
	_ context.Context,
) ([]*domain.Session, error) {
	var sessions []domain.Session
	if err := r.store.Find(&sessions, nil); err != nil {
		return nil, err
	}

	list := make([]*domain.Session, 0, len(sessions))
	for i := range sessions {
		list = append(list, &sessions[i])
	}

	return list, nil
}

// UpdateSession reads, transforms and writes back the session record within
// a single badger transaction. An error returned by updateFn discards the
// transaction and leaves the stored record untouched.
func (r sessionRepositoryImpl) UpdateSession(
	_ context.Context,
	id string,
	updateFn func(s *domain.Session) (*domain.Session, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var session domain.Session
		if err := r.store.TxGet(tx, id, &session); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrSessionNotFound
			}
			return err
		}

		updatedSession, err := updateFn(&session)
		if err != nil {
			return err
		}

		return r.store.TxUpdate(tx, id, *updatedSession)
	})
}

func (r sessionRepositoryImpl) DeleteAllSessions(_ context.Context) error {
	return r.store.DeleteMatching(&domain.Session{}, nil)
}
