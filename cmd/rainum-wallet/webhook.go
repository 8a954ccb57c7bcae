package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/application"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
)

var (
	webhook = cli.Command{
		Name:  "webhook",
		Usage: "add or remove webhooks notified of wallet audit events",
		Subcommands: []*cli.Command{
			webhookAddCmd, webhookRemoveCmd,
		},
	}

	listwebhooks = cli.Command{
		Name:  "webhooks",
		Usage: "list registered webhooks, optionally filtered by target event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "event",
				Usage: "the audit event to filter by",
				Value: "",
			},
		},
		Action: listWebhooksAction,
	}

	webhookAddCmd = &cli.Command{
		Name:  "add",
		Usage: "add a (secured) webhook endpoint called whenever the target event occurs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "the endpoint to be called whenever the target event occurs",
				Value: "",
			},
			&cli.StringFlag{
				Name: "secret",
				Usage: "the eventual secret to use to generate an auth token for " +
					"requests to the webhook endpoint",
				Value: "",
			},
			&cli.StringFlag{
				Name:  "event",
				Usage: "the audit event triggering the webhook, 'any' for all of them",
				Value: "",
			},
		},
		Action: addWebhookAction,
	}

	webhookRemoveCmd = &cli.Command{
		Name:  "remove",
		Usage: "remove a webhook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "the id of the webhook to remove",
				Value: "",
			},
		},
		Action: removeWebhookAction,
	}
)

var auditEvents = []string{
	application.TopicLoginSuccess,
	application.TopicLoginFailed,
	application.TopicLoginBlocked,
	application.TopicWalletUnlocked,
	application.TopicWalletLocked,
	application.TopicWalletCreated,
	application.TopicWalletDeleted,
	application.TopicPasswordChanged,
	application.TopicSessionExpired,
	application.TopicAccountDiscovered,
	application.TopicCredentialEnrolled,
}

func parseEvent(event string) (string, error) {
	if event == "any" || event == ports.AnyTopic {
		return ports.AnyTopic, nil
	}

	for _, topic := range auditEvents {
		if event == topic {
			return event, nil
		}
	}

	return "", fmt.Errorf(
		"unknown event, must be 'any' or one of: %s",
		strings.Join(auditEvents, ", "),
	)
}

func addWebhookAction(ctx *cli.Context) error {
	if len(ctx.String("event")) <= 0 {
		return &invalidUsageError{ctx, "add"}
	}

	event, err := parseEvent(ctx.String("event"))
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := svc.pubsub.Subscribe(
		event, ctx.String("endpoint"), ctx.String("secret"),
	)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("webhook id:", id)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	hookID := ctx.String("id")

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.pubsub.Unsubscribe(ports.UnspecifiedTopic, hookID); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("removed webhook with id:", hookID)
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	topic := ports.UnspecifiedTopic
	if event := ctx.String("event"); len(event) > 0 {
		var err error
		if topic, err = parseEvent(event); err != nil {
			return err
		}
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	subs := svc.pubsub.ListSubscriptionsForTopic(topic)
	infos := make([]map[string]interface{}, 0, len(subs))
	for _, sub := range subs {
		infos = append(infos, map[string]interface{}{
			"id":       sub.Id(),
			"event":    sub.Topic(),
			"endpoint": sub.NotifyAt(),
			"secured":  sub.IsSecured(),
		})
	}

	printRespJSON(infos)

	return nil
}
