package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var lockwallet = cli.Command{
	Name:   "lock",
	Usage:  "lock the wallet and wipe the session secrets",
	Action: lockWalletAction,
}

func lockWalletAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.wallet.LockWallet(context.Background()); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Wallet is locked")
	return nil
}
