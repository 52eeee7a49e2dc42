package main

import (
	"context"
	"fmt"

	"academy-service/cache"
	"academy-service/events"
	aws_pkg "academy-service/pkg/aws"
	"academy-service/storage"

	"go.uber.org/zap"
)

// buildReceiptStore returns the configured store and, for local storage, the
// directory to serve statically.
func buildReceiptStore(ctx context.Context, cfg *Config) (storage.ReceiptStore, string, error) {
	switch cfg.ReceiptStorage {
	case "s3":
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx, cfg.awsOptions(cfg.S3Endpoint))
		if err != nil {
			return nil, "", fmt.Errorf("load aws config: %w", err)
		}
		publicURL := storage.BucketURL(cfg.S3Bucket, cfg.AWSRegion, cfg.S3Endpoint)
		return storage.NewS3Store(aws_pkg.NewS3Client(awsCfg), cfg.S3Bucket, cfg.S3Prefix, publicURL), "", nil
	case "cloudinary":
		store, err := storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		store, err := storage.NewLocalStore(cfg.ReceiptLocalDir, cfg.ReceiptPublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	}
}

func buildPublisher(ctx context.Context, cfg *Config) (events.Publisher, error) {
	switch cfg.EventsBackend {
	case "sns":
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx, cfg.awsOptions(cfg.AWSEndpoint))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return events.NewSNSPublisher(aws_pkg.NewSNSClient(awsCfg), cfg.EventsTopicARN), nil
	case "kafka":
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return events.NoopPublisher{}, nil
	}
}

// buildCourseCache connects to Redis when configured. A failed connection
// disables caching rather than blocking startup.
func buildCourseCache(ctx context.Context, cfg *Config, log *zap.Logger) (cache.CourseCache, func()) {
	if cfg.RedisURL == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("Redis unavailable, course cache disabled", zap.Error(err))
		return nil, func() {}
	}
	return cache.NewRedisCourseCache(client, 0, log), func() { _ = client.Close() }
}
