package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

var initwallet = cli.Command{
	Name:  "init",
	Usage: "initialize the wallet with a fresh or restored mnemonic",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "password",
			Usage: "the password used to encrypt the mnemonic",
		},
		&cli.StringFlag{
			Name:  "seed",
			Usage: "the mnemonic seed of the wallet",
		},
		&cli.BoolFlag{
			Name:  "restore",
			Value: false,
			Usage: "whether to scan the chain for existing accounts of the mnemonic",
		},
	},
	Action: initWalletAction,
}

func initWalletAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	restore := ctx.Bool("restore")

	seed := ctx.String("seed")
	if len(seed) <= 0 {
		if restore {
			if seed, err = readMnemonic(); err != nil {
				return err
			}
		} else {
			mnemonic, err := svc.wallet.GenSeed(context.Background())
			if err != nil {
				return err
			}
			seed = strings.Join(mnemonic, " ")

			fmt.Println("Write down the mnemonic of the new wallet, it won't be shown again:")
			fmt.Println()
			fmt.Println(seed)
			fmt.Println()
		}
	}

	password, err := readNewPassword(ctx, "password")
	if err != nil {
		return err
	}

	report, err := svc.wallet.InitWallet(
		context.Background(), strings.Fields(seed), password, restore,
	)
	if err != nil {
		return err
	}

	if report != nil {
		for _, info := range report.Found {
			fmt.Println("restored account", info.Index, info.Name)
		}
		if len(report.Inconclusive) > 0 {
			fmt.Println(
				"some indexes could not be checked and are worth a new discovery:",
				report.Inconclusive,
			)
		}
	}

	fmt.Println()
	fmt.Println("Wallet is initialized. You can unlock")
	return nil
}

func readMnemonic() (string, error) {
	fmt.Print("Mnemonic: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading mnemonic: %w", err)
	}
	return strings.TrimSpace(line), nil
}
