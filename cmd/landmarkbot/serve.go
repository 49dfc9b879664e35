package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"landmarkbot/internal/landmark"
	"landmarkbot/internal/line"
	"landmarkbot/internal/server"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the webhook server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "migrate",
			Usage: "Apply the postgres schema before serving",
		},
	},
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx.String("env-prefix"))
	if err != nil {
		return err
	}

	if err := validateServeConfig(config); err != nil {
		return err
	}

	logger := newLogger(config)

	records, migrate, err := openStore(ctx, config.StoreURL)
	if err != nil {
		return err
	}
	defer records.Close()

	if cCtx.Bool("migrate") {
		if err := migrate(ctx); err != nil {
			return err
		}
		logger.Info("schema migrated")
	}

	relay, err := openRelay(ctx, config)
	if err != nil {
		return err
	}

	gateway, err := line.NewClient(config.ChannelSecret, config.ChannelAccessToken)
	if err != nil {
		return err
	}

	accumulator := landmark.New(logger, records, relay, gateway)

	srv := server.New(config, logger, gateway, accumulator)

	go func() {
		logger.WithFields(logrus.Fields{
			"port":          config.ServerPort,
			"media_backend": config.MediaBackend,
		}).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
