package main

import (
	"bytes"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Storage is a BlobStore backed by an S3-compatible bucket (AWS or a
// MinIO-style endpoint). Selected via storage.backend: "s3".
type S3Storage struct {
	client *s3.S3
	bucket string
}

func NewS3Storage(config *Config) (*S3Storage, error) {
	s3Config := config.Storage.S3

	awsConfig := &aws.Config{
		Region: aws.String(s3Config.Region),
	}
	if s3Config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(s3Config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if s3Config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(s3Config.AccessKey, s3Config.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}

	return &S3Storage{client: s3.New(sess), bucket: s3Config.Bucket}, nil
}

func (s *S3Storage) Save(reader io.Reader, storedName string) error {
	// PutObject needs a seekable body; uploads are office documents, so
	// buffering in memory is acceptable.
	content, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(storedName),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("application/octet-stream"),
	})
	return err
}

func (s *S3Storage) Open(storedName string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storedName),
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}
