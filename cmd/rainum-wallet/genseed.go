package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

var genseed = cli.Command{
	Name:   "genseed",
	Usage:  "generate a mnemonic seed for a new wallet",
	Action: genSeedAction,
}

func genSeedAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	mnemonic, err := svc.wallet.GenSeed(context.Background())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(strings.Join(mnemonic, " "))

	return nil
}
