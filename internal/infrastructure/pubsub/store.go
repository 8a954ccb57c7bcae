package pubsub

import (
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
)

// subscriptionStore persists the registered webhooks so that clients keep
// being notified across restarts of the wallet.
type subscriptionStore struct {
	store *badgerhold.Store
}

func openStore(dbDir string, logger badger.Logger) (*subscriptionStore, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	opts.Compression = options.ZSTD

	store, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	return &subscriptionStore{store}, nil
}

func (s *subscriptionStore) add(sub *Subscription) error {
	if err := s.store.Insert(sub.ID, *sub); err != nil {
		if err == badgerhold.ErrKeyExists {
			return nil
		}
		return err
	}
	return nil
}

func (s *subscriptionStore) get(id string) (*Subscription, error) {
	var sub Subscription
	if err := s.store.Get(id, &sub); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *subscriptionStore) remove(id string) error {
	if err := s.store.Delete(id, Subscription{}); err != nil &&
		err != badgerhold.ErrNotFound {
		return err
	}
	return nil
}

func (s *subscriptionStore) listForTopic(topic string) (subscriptions, error) {
	var query *badgerhold.Query
	if topic != ports.UnspecifiedTopic {
		query = badgerhold.Where("Event").Eq(topic)
	}

	var subs []Subscription
	if err := s.store.Find(&subs, query); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *subscriptionStore) close() error {
	return s.store.Close()
}
