package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

var unlockwallet = cli.Command{
	Name:  "unlock",
	Usage: "unlock the wallet with the given password and open a session",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "password",
			Usage: "the password used to encrypt the mnemonic",
			Value: "",
		},
	},
	Action: unlockWalletAction,
}

func unlockWalletAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	password, err := readPassword(ctx, "password", "Password")
	if err != nil {
		return err
	}

	reply, err := svc.wallet.UnlockWallet(context.Background(), password)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Wallet is unlocked")
	fmt.Println("session id:", reply.SessionID)
	fmt.Println("session token:", reply.SessionToken)
	fmt.Println("session expires at:", reply.ExpiresAt.Format(time.RFC3339))
	return nil
}
