package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

const (
	contractObject = "contract.txt"
	resultObject   = "result.json"
)

// Store arsip kontrak + hasil analisa di MinIO/S3
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

func prefix(userID string, id analysis.ID) string {
	return path.Join(userID, string(id))
}

// Put implementasi analysis.Archive, returns the URL of the archive folder
func (s *Store) Put(ctx context.Context, a *analysis.ContractAnalysis) (string, error) {
	result, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode archive record: %w", err)
	}
	base := prefix(a.UserID, a.ID)
	if err := s.put(ctx, path.Join(base, contractObject), []byte(a.ContractText), "text/plain; charset=utf-8"); err != nil {
		return "", err
	}
	if err := s.put(ctx, path.Join(base, resultObject), result, "application/json"); err != nil {
		return "", err
	}

	// URL publik (jika bucket public), kalau private harus generate presigned URL
	return fmt.Sprintf("%s/%s/%s/", s.client.EndpointURL().String(), s.bucketName, base), nil
}

func (s *Store) put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Remove hapus semua object arsip milik analisa
func (s *Store) Remove(ctx context.Context, userID string, id analysis.ID) error {
	base := prefix(userID, id)
	for _, name := range []string{contractObject, resultObject} {
		key := path.Join(base, name)
		if err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove object %s: %w", key, err)
		}
	}
	return nil
}
