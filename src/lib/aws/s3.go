package aws

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func GetS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := s3.NewFromConfig(cfg)
	return svc
}

// S3UploadDocument archives a composed ticket PDF under the given key and
// returns a presigned share URL.
func S3UploadDocument(ctx context.Context, key string, doc []byte) (*string, error) {
	bucket := os.Getenv("S3_DOCUMENTS_BUCKET")
	client := GetS3Client()
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(doc),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		log.Printf("Could not put object to S3 bucket: %s\n", err.Error())
		return nil, err
	}
	err = s3.NewObjectExistsWaiter(client).Wait(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, time.Minute)
	if err != nil {
		log.Printf("Failed attempt to wait for object %s to exist: %s\n", key, err.Error())
		return nil, err
	}
	return S3PresignDocument(ctx, key)
}

// S3PresignDocument builds a time-limited download URL for an archived
// ticket document.
func S3PresignDocument(ctx context.Context, key string) (*string, error) {
	bucket := os.Getenv("S3_DOCUMENTS_BUCKET")
	client := GetS3Client()
	presigner := s3.NewPresignClient(client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(2*time.Hour))
	if err != nil {
		log.Printf("Could not presign object %s: %s\n", key, err.Error())
		return nil, err
	}
	return &req.URL, nil
}

// S3DownloadDocument fetches an archived ticket document. A missing key is
// reported as (nil, nil) so callers can fall back to recomposing.
func S3DownloadDocument(ctx context.Context, key string) ([]byte, error) {
	bucket := os.Getenv("S3_DOCUMENTS_BUCKET")
	client := GetS3Client()
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, err
	}
	defer result.Body.Close()
	return io.ReadAll(result.Body)
}
