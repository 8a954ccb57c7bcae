package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

var overwritewallet = cli.Command{
	Name:  "overwrite",
	Usage: "replace the wallet mnemonic and password, wiping the current vault",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "password",
			Usage: "the password used to encrypt the new mnemonic",
		},
		&cli.StringFlag{
			Name:  "seed",
			Usage: "the new mnemonic seed of the wallet",
		},
		&cli.BoolFlag{
			Name:  "confirm",
			Value: false,
			Usage: "confirm that the current mnemonic gets wiped for good",
		},
	},
	Action: overwriteWalletAction,
}

func overwriteWalletAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	seed := ctx.String("seed")
	if len(seed) <= 0 {
		if seed, err = readMnemonic(); err != nil {
			return err
		}
	}

	password, err := readNewPassword(ctx, "password")
	if err != nil {
		return err
	}

	if err := svc.wallet.OverwriteWallet(
		context.Background(), strings.Fields(seed), password, ctx.Bool("confirm"),
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Wallet is overwritten. You can unlock")
	return nil
}
