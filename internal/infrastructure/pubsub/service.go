package pubsub

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/circuitbreaker"
	"github.com/dgraph-io/badger/v3"
	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

type service struct {
	store      *subscriptionStore
	httpClient *client
	cb         *gobreaker.CircuitBreaker
}

// NewService returns a webhook implementation of the ports.SecurePubSub
// interface. Subscriptions are persisted on disk in a dedicated badger
// store, messages are delivered with a POST request to every endpoint
// registered for the topic.
func NewService(dbDir string, logger badger.Logger) (ports.SecurePubSub, error) {
	store, err := openStore(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening subscriptions db: %w", err)
	}

	return &service{
		store:      store,
		httpClient: newHTTPClient(15 * time.Second),
		cb:         circuitbreaker.NewCircuitBreaker("webhook"),
	}, nil
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	return ws.addSubscription(sub)
}

func (ws *service) SubscribeWithID(id, topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscriptionWithID(id, topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	return ws.addSubscription(sub)
}

func (ws *service) Unsubscribe(_, id string) error {
	return ws.removeSubscription(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	return ws.publishForTopic(topic, message)
}

func (ws *service) Close() error {
	return ws.store.close()
}

func (ws *service) addSubscription(sub *Subscription) (string, error) {
	ss, err := ws.store.get(sub.ID)
	if err != nil {
		return "", err
	}
	if ss != nil {
		return sub.ID, nil
	}

	if err := ws.store.add(sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) removeSubscription(subID string) error {
	sub, err := ws.store.get(subID)
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("webhook not found")
	}

	return ws.store.remove(subID)
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	subs, _ := ws.store.listForTopic(topic)
	if topic != ports.AnyTopic && topic != ports.UnspecifiedTopic {
		subsForAnyTopic, _ := ws.store.listForTopic(ports.AnyTopic)
		subs = append(subs, subsForAnyTopic...)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs
}

func (ws *service) publishForTopic(topic, message string) error {
	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (ws *service) doRequest(sub Subscription, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			token := jwt.New(jwt.SigningMethodHS256)
			secret := []byte(sub.Secret)
			tokenString, _ := token.SignedString(secret)
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(resp)
		}
		return nil, nil
	})

	return err
}
