package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var discover = cli.Command{
	Name:  "discover",
	Usage: "scan the chain index for wallet accounts with history",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "password",
			Usage: "the unlocking password",
			Value: "",
		},
	},
	Action: discoverAccountsAction,
}

func discoverAccountsAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	password, err := readPassword(ctx, "password", "Password")
	if err != nil {
		return err
	}

	if _, err := svc.wallet.UnlockWallet(context.Background(), password); err != nil {
		return err
	}

	report, err := svc.operator.DiscoverAccounts(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(report)

	return nil
}
