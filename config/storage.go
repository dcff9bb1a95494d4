package config

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/models"
	"github.com/mcsoccercamp/camp-api/internal/storage"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
)

type StorageConfig struct {
	Backend  string
	Bucket   string
	Prefix   string
	Endpoint string
}

func NewStorageConfig() *StorageConfig {
	return &StorageConfig{
		Backend:  strings.ToLower(utils.GetEnvTrimmedOrDefault("WAIVER_STORAGE", models.WaiverStorageDatabase)),
		Bucket:   utils.GetEnvTrimmed("WAIVER_S3_BUCKET"),
		Prefix:   utils.GetEnvTrimmedOrDefault("WAIVER_S3_PREFIX", "waivers/"),
		Endpoint: utils.GetEnvTrimmed("WAIVER_S3_ENDPOINT"),
	}
}

// NewBlobStore returns nil when waivers are kept in the database.
func (sc *StorageConfig) NewBlobStore(ctx context.Context, logger *log.Logger) (storage.BlobStore, error) {
	switch sc.Backend {
	case "", models.WaiverStorageDatabase:
		logger.Info("Waiver storage configured", "backend", models.WaiverStorageDatabase)
		return nil, nil
	case models.WaiverStorageS3:
	default:
		return nil, fmt.Errorf("unknown WAIVER_STORAGE %q", sc.Backend)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("Failed to load AWS config for S3", "error", err)
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = &sc.Endpoint
			o.UsePathStyle = true
		}
	})

	store, err := storage.NewS3Store(client, storage.S3Config{Bucket: sc.Bucket, Prefix: sc.Prefix})
	if err != nil {
		logger.Error("Failed to configure S3 waiver storage", "error", err)
		return nil, err
	}

	logger.Info("Waiver storage configured", "backend", models.WaiverStorageS3, "bucket", sc.Bucket, "prefix", sc.Prefix)
	return store, nil
}
