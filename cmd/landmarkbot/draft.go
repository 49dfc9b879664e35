package main

import (
	"context"
	"fmt"

	"landmarkbot/internal/landmark"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var draftCommand = &cli.Command{
	Name:  "draft",
	Usage: "Pretty-print a user's in-progress landmark",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "user",
			Aliases:  []string{"u"},
			Usage:    "LINE user id",
			Required: true,
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		records, _, err := openStore(ctx, cfg.StoreURL)
		if err != nil {
			return fmt.Errorf("failed to connect to record store: %w", err)
		}
		defer records.Close()

		svc := landmark.New(logrus.StandardLogger(), records, nil, nil)

		draft, err := svc.Draft(ctx, c.String("user"))
		if err != nil {
			return err
		}

		printer := pp.New()
		printer.SetOutput(c.App.Writer)
		printer.SetColoringEnabled(false)
		_, err = printer.Println(draft)
		if err == nil {
			_, err = fmt.Fprintf(c.App.Writer, "missing: %v\n", draft.Missing())
		}
		return err
	},
}
