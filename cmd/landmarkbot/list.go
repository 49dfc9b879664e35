package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"landmarkbot/internal/landmark"
	"landmarkbot/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var listCommand = &cli.Command{
	Name:  "list",
	Usage: "Print every registered landmark, one JSON object per line",
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

		landmarks, err := svc.Records(ctx)
		if err != nil {
			return err
		}

		return writeRecords(c.App.Writer, landmarks)
	},
}

func writeRecords(w io.Writer, records []types.Record) error {
	enc := json.NewEncoder(w)
	for _, record := range records {
		if err := enc.Encode(record.Fields); err != nil {
			return fmt.Errorf("encode record %s: %w", record.Key, err)
		}
	}
	return nil
}
