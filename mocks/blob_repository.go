package mocks

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/caseproof/caseproof-backend/models"
)

type BlobRepository struct {
	mock.Mock
}

func (r *BlobRepository) GetBlob(ctx context.Context, bucketUrl, fileName string) (models.Blob, error) {
	args := r.Called(bucketUrl, fileName)
	return args.Get(0).(models.Blob), args.Error(1)
}

func (r *BlobRepository) OpenStream(ctx context.Context, bucketUrl, fileName string) (io.WriteCloser, error) {
	args := r.Called(bucketUrl, fileName)
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (r *BlobRepository) DeleteFile(ctx context.Context, bucketUrl, fileName string) error {
	args := r.Called(bucketUrl, fileName)
	return args.Error(0)
}

func (r *BlobRepository) ListFiles(ctx context.Context, bucketUrl, prefix string) ([]string, error) {
	args := r.Called(bucketUrl, prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (r *BlobRepository) GenerateSignedUrl(ctx context.Context, bucketUrl, fileName string,
	expiry time.Duration,
) (string, error) {
	args := r.Called(bucketUrl, fileName, expiry)
	return args.String(0), args.Error(1)
}

// NopWriteCloser is a discard writer for OpenStream expectations.
type NopWriteCloser struct {
	bytes.Buffer
}

func (w *NopWriteCloser) Close() error { return nil }
