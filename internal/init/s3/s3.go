package s3

import (
	"context"
	"errors"
	"fmt"
	"os"
	"redunap/config"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage содержит клиент и конфигурацию S3.
type S3Storage struct {
	Client *s3.Client
	Cfg    config.S3Config
}

func NewS3Storage(appS3Cfg config.S3Config) (*S3Storage, error) {
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")

	if accessKey == "" || secretKey == "" {
		return nil, errors.New("S3_ACCESS_KEY or S3_SECRET_KEY environment variables are not set")
	}

	customResolver := aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			endpointURL := appS3Cfg.Endpoint
			if endpointURL != "" && !strings.HasPrefix(endpointURL, "http") {
				endpointURL = "https://" + endpointURL
			}
			return aws.Endpoint{
				URL:               endpointURL,
				HostnameImmutable: true,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	sdkCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsConfig.WithRegion(appS3Cfg.Region),
		awsConfig.WithEndpointResolver(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	storage := &S3Storage{
		Client: s3.NewFromConfig(sdkCfg),
		Cfg:    appS3Cfg,
	}

	if appS3Cfg.BucketUserAvatars != "" {
		if err := storage.ensureBucket(appS3Cfg.BucketUserAvatars); err != nil {
			return nil, fmt.Errorf("bucket %q is not ready: %w", appS3Cfg.BucketUserAvatars, err)
		}
	}

	return storage, nil
}

// ensureBucket проверяет существование бакета, создает его при необходимости
// и применяет политику публичного чтения.
func (s *S3Storage) ensureBucket(bucketName string) error {
	_, err := s.Client.HeadBucket(context.TODO(), &s3.HeadBucketInput{Bucket: aws.String(bucketName)})
	if err != nil {
		var apiError interface{ ErrorCode() string }
		if !errors.As(err, &apiError) || (apiError.ErrorCode() != "NotFound" && apiError.ErrorCode() != "NoSuchBucket") {
			return fmt.Errorf("HeadBucket failed: %w", err)
		}

		var createBucketCfg *types.CreateBucketConfiguration
		if s.Cfg.Region != "" && s.Cfg.Region != "us-east-1" {
			createBucketCfg = &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(s.Cfg.Region),
			}
		}

		_, createErr := s.Client.CreateBucket(context.TODO(), &s3.CreateBucketInput{
			Bucket:                    aws.String(bucketName),
			CreateBucketConfiguration: createBucketCfg,
		})
		if createErr != nil {
			var alreadyOwned *types.BucketAlreadyOwnedByYou
			var alreadyExists *types.BucketAlreadyExists
			if !errors.As(createErr, &alreadyOwned) && !errors.As(createErr, &alreadyExists) {
				return fmt.Errorf("failed to create bucket: %w", createErr)
			}
		}
	}

	return s.applyPublicReadPolicy(bucketName)
}

func (s *S3Storage) applyPublicReadPolicy(bucketName string) error {
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": "*",
				"Action": ["s3:GetObject"],
				"Resource": "arn:aws:s3:::%s/*"
			}
		]
	}`, bucketName)

	_, err := s.Client.PutBucketPolicy(context.TODO(), &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucketName),
		Policy: aws.String(policy),
	})
	if err != nil {
		return fmt.Errorf("failed to apply public read policy: %w", err)
	}
	return nil
}
