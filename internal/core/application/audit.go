package application

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
)

// auditNotifier mirrors audit events on the logger and publishes them to
// the optional pubsub service. Publishing is fire and forget, a failing
// subscriber must never fail the wallet operation that emitted the event.
type auditNotifier struct {
	pubsub ports.SecurePubSub
}

func (n *auditNotifier) notify(event AuditEvent) {
	log.Infof("audit event %s for owner %s", event.Topic, event.OwnerAddress)

	if n.pubsub == nil {
		return
	}

	payload := map[string]interface{}{
		"id":            event.ID,
		"topic":         event.Topic,
		"owner_address": event.OwnerAddress,
		"timestamp":     event.Timestamp.Unix(),
		"metadata":      event.Metadata,
	}
	message, _ := json.Marshal(payload)

	go func() {
		if err := n.pubsub.Publish(event.Topic, string(message)); err != nil {
			log.WithError(err).Warnf(
				"an error occured while publishing message for topic %s",
				event.Topic,
			)
		}
	}()
}
