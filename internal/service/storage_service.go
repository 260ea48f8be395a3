package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"juegos_edu_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService archives generated narrative reports as objects so teachers
// can retrieve past reports. Archival is best-effort and optional.
type StorageService struct {
	client *minio.Client
	bucket string
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &StorageService{client: client, bucket: cfg.Bucket}, nil
}

func (s *StorageService) SaveReport(ctx context.Context, studentID, report string) (string, error) {
	objectName := fmt.Sprintf("reports/%s/%s.txt", studentID, time.Now().Format("2006-01-02T15-04-05"))

	data := []byte(report)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return "", err
	}

	return objectName, nil
}
