package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"
)

var status = cli.Command{
	Name:   "status",
	Usage:  "show the status of the wallet and of the unlock guard",
	Action: getStatusAction,
}

func getStatusAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	walletStatus := svc.wallet.Status(context.Background())
	guard, err := svc.wallet.UnlockGuardInfo(context.Background())
	if err != nil {
		return err
	}

	resp := map[string]interface{}{
		"initialized":        walletStatus.Initialized,
		"unlocked":           walletStatus.Unlocked,
		"scanning":           walletStatus.Scanning,
		"locked_out":         guard.LockedOut,
		"remaining_attempts": guard.RemainingAttempts,
		"retry_after":        guard.RetryAfter.Round(time.Second).String(),
	}

	if session, err := svc.sessions.CurrentSession(context.Background()); err == nil &&
		session != nil {
		resp["session_id"] = session.ID
		resp["session_expires_at"] = session.ExpiresAt().Format(time.RFC3339)
	}

	printRespJSON(resp)

	return nil
}
