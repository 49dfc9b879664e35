package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Apply the record store schema (postgres only)",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		records, migrate, err := openStore(ctx, cfg.StoreURL)
		if err != nil {
			return fmt.Errorf("failed to connect to record store: %w", err)
		}
		defer records.Close()

		logrus.Info("Connected to record store")

		if err := migrate(ctx); err != nil {
			return err
		}

		logrus.Info("Schema is up to date")

		return nil
	},
}
