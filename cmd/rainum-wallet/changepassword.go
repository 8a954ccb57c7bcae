package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

const (
	curPwdFlagName = "current_password"
	newPwdFlagName = "new_password"
)

var changepassword = cli.Command{
	Name:  "changepassword",
	Usage: "change the password encrypting the wallet mnemonic",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  curPwdFlagName,
			Usage: "the current unlocking password",
			Value: "",
		},
		&cli.StringFlag{
			Name:  newPwdFlagName,
			Usage: "the new password that replaces the current one",
			Value: "",
		},
	},
	Action: changePasswordAction,
}

func changePasswordAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	curPwd, err := readPassword(ctx, curPwdFlagName, "Current password")
	if err != nil {
		return err
	}

	newPwd, err := readNewPassword(ctx, newPwdFlagName)
	if err != nil {
		return err
	}

	if err := svc.wallet.ChangePassword(
		context.Background(), curPwd, newPwd,
	); err != nil {
		return err
	}

	fmt.Println("Done")

	return nil
}
