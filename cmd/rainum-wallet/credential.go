package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	credential = cli.Command{
		Name:  "credential",
		Usage: "manage the platform credential bound to the wallet owner",
		Subcommands: []*cli.Command{
			credentialEnrollCmd, credentialStatusCmd,
		},
	}

	credentialEnrollCmd = &cli.Command{
		Name:  "enroll",
		Usage: "bind a platform credential to the wallet owner. Requires an active session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "label",
				Usage: "a human readable label for the credential",
				Value: "",
			},
		},
		Action: enrollCredentialAction,
	}

	credentialStatusCmd = &cli.Command{
		Name:   "status",
		Usage:  "show whether a platform credential is enrolled",
		Action: credentialStatusAction,
	}
)

func enrollCredentialAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := svc.operator.EnrollCredential(context.Background(), ctx.String("label"))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("credential id:", id)
	return nil
}

func credentialStatusAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	credStatus, err := svc.operator.CredentialStatus(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"supported": credStatus.Supported,
		"enrolled":  credStatus.Enrolled,
	})

	return nil
}
