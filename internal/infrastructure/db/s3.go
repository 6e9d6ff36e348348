package db

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/config"
)

// NewS3Client builds an S3 client from static credentials.
func NewS3Client(cfg *config.S3Config, logger *zap.Logger) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("S3 client initialized",
		zap.String("region", cfg.Region),
		zap.String("bucket", cfg.Bucket))
	return s3.NewFromConfig(awsCfg), nil
}
