package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var deletewallet = cli.Command{
	Name:  "delete",
	Usage: "delete the wallet for good, revoking any bound credential",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "password",
			Usage: "the unlocking password",
			Value: "",
		},
		&cli.BoolFlag{
			Name:  "confirm",
			Value: false,
			Usage: "confirm that the vault and its accounts get wiped for good",
		},
	},
	Action: deleteWalletAction,
}

func deleteWalletAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	password, err := readPassword(ctx, "password", "Password")
	if err != nil {
		return err
	}

	if err := svc.wallet.DeleteWallet(
		context.Background(), password, ctx.Bool("confirm"),
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Wallet is deleted")
	return nil
}
