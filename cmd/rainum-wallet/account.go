package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	accounts = cli.Command{
		Name:  "accounts",
		Usage: "list the wallet accounts",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "balance",
				Usage: "fetch the balance of every account from the chain index",
				Value: false,
			},
		},
		Action: listAccountsAction,
	}

	account = cli.Command{
		Name:  "account",
		Usage: "derive or rename wallet accounts",
		Subcommands: []*cli.Command{
			accountDeriveCmd, accountRenameCmd,
		},
	}

	accountDeriveCmd = &cli.Command{
		Name:  "derive",
		Usage: "derive the next account of the wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "an optional name for the new account",
				Value: "",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "the unlocking password",
				Value: "",
			},
		},
		Action: deriveAccountAction,
	}

	accountRenameCmd = &cli.Command{
		Name:  "rename",
		Usage: "rename a wallet account. Requires an active session",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "index",
				Usage: "the index of the account to rename",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "the new name of the account",
				Value: "",
			},
		},
		Action: renameAccountAction,
	}
)

func listAccountsAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	infos, err := svc.operator.ListAccounts(context.Background(), ctx.Bool("balance"))
	if err != nil {
		return err
	}

	printRespJSON(infos)

	return nil
}

func deriveAccountAction(ctx *cli.Context) error {
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

	info, err := svc.operator.DeriveNextAccount(context.Background(), ctx.String("name"))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("account index:", info.Index)
	fmt.Println("account name:", info.Name)
	fmt.Println("account address:", info.Address)
	return nil
}

func renameAccountAction(ctx *cli.Context) error {
	name := ctx.String("name")
	if len(name) <= 0 {
		return &invalidUsageError{ctx, "rename"}
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.operator.RenameAccount(
		context.Background(), uint32(ctx.Int("index")), name,
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Account is renamed")
	return nil
}
