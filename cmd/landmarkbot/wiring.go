package main

import (
	"context"
	"fmt"

	"landmarkbot/internal/db"
	"landmarkbot/internal/landmark"
	"landmarkbot/internal/storage"
	"landmarkbot/internal/store"
	"landmarkbot/pkg/types"
)

type recordStore interface {
	landmark.Store
	Close() error
}

// openStore connects to the record store named by storeURL. The returned
// migrate func applies the schema and is a no-op for redis.
func openStore(ctx context.Context, storeURL string) (recordStore, func(context.Context) error, error) {
	kind, err := storeKind(storeURL)
	if err != nil {
		return nil, nil, err
	}

	switch kind {
	case storeKindPostgres:
		pool, err := db.ConnectPostgres(ctx, storeURL)
		if err != nil {
			return nil, nil, err
		}
		migrate := func(ctx context.Context) error {
			return db.Migrate(ctx, pool)
		}
		return store.NewPostgresRepository(pool), migrate, nil

	default:
		client, err := db.ConnectRedis(ctx, storeURL)
		if err != nil {
			return nil, nil, err
		}
		migrate := func(context.Context) error { return nil }
		return store.NewRedisRepository(client), migrate, nil
	}
}

func openRelay(ctx context.Context, c *types.Config) (landmark.MediaRelay, error) {
	switch c.MediaBackend {
	case types.MediaBackendCloudinary:
		return storage.NewCloudinaryStorage(c.CloudinaryName, c.CloudinaryKey, c.CloudinarySecret, c.CloudinaryFolder)
	case types.MediaBackendS3:
		return storage.NewS3Storage(ctx, storage.S3Options{
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			BucketName:      c.S3BucketName,
			Region:          c.S3Region,
			BaseEndpoint:    c.S3BaseEndpoint,
			PublicBaseURL:   c.S3PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedMedia, c.MediaBackend)
	}
}
