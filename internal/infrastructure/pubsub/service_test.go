package pubsub_test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	pubsub "github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/pubsub"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
)

var testMessage = `{"id":"5440a53e","topic":"wallet_unlocked","owner_address":"rnm1qw508d6qejxtdg4y5r3zarvary0c5xw7kda98xu"}`

type testWebServer struct {
	*httptest.Server

	lock       sync.Mutex
	hitsByPath map[string]int
	authByPath map[string]string
}

func newTestWebServer() *testWebServer {
	ws := &testWebServer{
		hitsByPath: map[string]int{},
		authByPath: map[string]string{},
	}
	ws.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" {
				http.Error(w, "Bad method", http.StatusMethodNotAllowed)
				return
			}
			if r.Header.Get("Content-Type") == "" {
				http.Error(w, "Missing Content-Type header", http.StatusUnsupportedMediaType)
				return
			}

			ws.lock.Lock()
			ws.hitsByPath[r.URL.Path]++
			ws.authByPath[r.URL.Path] = r.Header.Get("Authorization")
			ws.lock.Unlock()

			fmt.Fprintf(w, "Done")
		},
	))
	return ws
}

func (ws *testWebServer) hits(path string) int {
	ws.lock.Lock()
	defer ws.lock.Unlock()
	return ws.hitsByPath[path]
}

func (ws *testWebServer) auth(path string) string {
	ws.lock.Lock()
	defer ws.lock.Unlock()
	return ws.authByPath[path]
}

func TestPubSubService(t *testing.T) {
	server := newTestWebServer()
	defer server.Close()

	pubsubSvc, err := pubsub.NewService(t.TempDir(), nil)
	require.NoError(t, err)
	defer pubsubSvc.Close()

	secret := randomSecret()
	unlockedEndpoint := fmt.Sprintf("%s/unlocked", server.URL)
	alleventsEndpoint := fmt.Sprintf("%s/allevents", server.URL)

	subID, err := pubsubSvc.Subscribe("wallet_unlocked", unlockedEndpoint, secret)
	require.NoError(t, err)
	require.NotEmpty(t, subID)

	allID, err := pubsubSvc.Subscribe(ports.AnyTopic, alleventsEndpoint, "")
	require.NoError(t, err)
	require.NotEmpty(t, allID)

	// subscriptions for any topic are notified along the topic's own ones
	subs := pubsubSvc.ListSubscriptionsForTopic("wallet_unlocked")
	require.Len(t, subs, 2)

	require.NoError(t, pubsubSvc.Publish("wallet_unlocked", testMessage))
	require.Equal(t, 1, server.hits("/unlocked"))
	require.Equal(t, 1, server.hits("/allevents"))

	// a topic nobody subscribed still reaches the any-topic endpoints
	require.NoError(t, pubsubSvc.Publish("wallet_locked", testMessage))
	require.Equal(t, 1, server.hits("/unlocked"))
	require.Equal(t, 2, server.hits("/allevents"))

	// secured subscriptions authenticate themselves with a bearer token
	// signed with the shared secret
	auth := server.auth("/unlocked")
	require.Contains(t, auth, "Bearer ")
	token, err := jwt.Parse(auth[len("Bearer "):], func(_ *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Empty(t, server.auth("/allevents"))

	require.NoError(t, pubsubSvc.Unsubscribe("wallet_unlocked", subID))
	require.Len(t, pubsubSvc.ListSubscriptionsForTopic("wallet_unlocked"), 1)
	require.EqualError(t, pubsubSvc.Unsubscribe("wallet_unlocked", subID), "webhook not found")

	require.NoError(t, pubsubSvc.Publish("wallet_unlocked", testMessage))
	require.Equal(t, 1, server.hits("/unlocked"))
	require.Equal(t, 3, server.hits("/allevents"))
}

func TestSubscriptionsSurviveReopen(t *testing.T) {
	server := newTestWebServer()
	defer server.Close()

	dbDir := t.TempDir()
	endpoint := fmt.Sprintf("%s/restart", server.URL)

	pubsubSvc, err := pubsub.NewService(dbDir, nil)
	require.NoError(t, err)

	subID, err := pubsubSvc.Subscribe("session_expired", endpoint, "")
	require.NoError(t, err)
	require.NoError(t, pubsubSvc.Close())

	pubsubSvc, err = pubsub.NewService(dbDir, nil)
	require.NoError(t, err)
	defer pubsubSvc.Close()

	subs := pubsubSvc.ListSubscriptionsForTopic("session_expired")
	require.Len(t, subs, 1)
	require.Equal(t, subID, subs[0].Id())
	require.Equal(t, endpoint, subs[0].NotifyAt())

	require.NoError(t, pubsubSvc.Publish("session_expired", testMessage))
	require.Equal(t, 1, server.hits("/restart"))
}

func TestFailingSubscribe(t *testing.T) {
	pubsubSvc, err := pubsub.NewService(t.TempDir(), nil)
	require.NoError(t, err)
	defer pubsubSvc.Close()

	_, err = pubsubSvc.Subscribe("", "http://localhost:8080", "")
	require.Error(t, err)

	_, err = pubsubSvc.Subscribe("wallet_unlocked", "not a url", "")
	require.Error(t, err)

	_, err = pubsubSvc.SubscribeWithID("", "wallet_unlocked", "http://localhost:8080", "")
	require.Error(t, err)
}

func randomSecret() string {
	b := make([]byte, 32)
	//nolint
	rand.Read(b)
	return hex.EncodeToString(b)
}
