package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	s3Storage "redunap/internal/init/s3"
	u "redunap/internal/modules/user"
)

type ProfileS3 struct {
	log    *slog.Logger
	s3     *s3Storage.S3Storage
	bucket string
}

func NewProfileS3(log *slog.Logger, s3 *s3Storage.S3Storage) *ProfileS3 {
	return &ProfileS3{
		log:    log,
		s3:     s3,
		bucket: s3.Cfg.BucketUserAvatars,
	}
}

// UploadAvatar загружает обе webp-версии аватара параллельно и возвращает
// URL папки пользователя в бакете.
func (s *ProfileS3) UploadAvatar(avatarSmall []byte, avatarLarge []byte, username string, userId uint) (*string, error) {
	log := s.log.With("op", "uploadAvatar")

	folderPath := fmt.Sprintf("%s_%d/", username, userId)

	objectKeySmall := folderPath + "64x64.webp"
	objectKeyLarge := folderPath + "512x512.webp"

	var wg sync.WaitGroup
	var errSmall, errLarge error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errSmall = s.s3.Client.PutObject(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(objectKeySmall),
			Body:        bytes.NewReader(avatarSmall),
			ContentType: aws.String("image/webp"),
		})
	}()
	go func() {
		defer wg.Done()
		_, errLarge = s.s3.Client.PutObject(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(objectKeyLarge),
			Body:        bytes.NewReader(avatarLarge),
			ContentType: aws.String("image/webp"),
		})
	}()
	wg.Wait()

	if errSmall != nil || errLarge != nil {
		log.Error("failed to upload avatar", "errSmall", errSmall, "errLarge", errLarge)
		return nil, u.ErrInternal
	}

	folderURL := fmt.Sprintf("https://%s.%s/%s", s.bucket, s.s3.Cfg.Endpoint, folderPath)
	return &folderURL, nil
}

func (s *ProfileS3) DeleteAvatar(username string, userId uint) error {
	folderPath := fmt.Sprintf("%s_%d/", username, userId)

	objectsId := []types.ObjectIdentifier{
		{Key: aws.String(folderPath + "64x64.webp")},
		{Key: aws.String(folderPath + "512x512.webp")},
	}

	_, err := s.s3.Client.DeleteObjects(context.TODO(), &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: objectsId,
			Quiet:   aws.Bool(true),
		},
	})

	return err
}
