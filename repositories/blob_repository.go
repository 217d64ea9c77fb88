package repositories

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/utils"
)

// Signed URL lifetimes, chosen per use case to balance usability against
// exposure window.
const (
	SignedUrlExpiryPreview      = 1 * time.Hour
	SignedUrlExpiryInputArchive = 8 * time.Hour
	SignedUrlExpiryCsvArtifact  = 24 * time.Hour
)

const blobReadRetryAttempts = 3

type BlobRepository interface {
	GetBlob(ctx context.Context, bucketUrl, fileName string) (models.Blob, error)
	OpenStream(ctx context.Context, bucketUrl, fileName string) (io.WriteCloser, error)
	DeleteFile(ctx context.Context, bucketUrl, fileName string) error
	ListFiles(ctx context.Context, bucketUrl, prefix string) ([]string, error)
	GenerateSignedUrl(ctx context.Context, bucketUrl, fileName string, expiry time.Duration) (string, error)
}

type blobRepository struct {
	buckets map[string]*blob.Bucket
	m       sync.Mutex
}

func NewBlobRepository() BlobRepository {
	return &blobRepository{
		buckets: make(map[string]*blob.Bucket),
	}
}

func (repo *blobRepository) openBlobBucket(ctx context.Context, bucketUrl string) (*blob.Bucket, error) {
	repo.m.Lock()
	defer repo.m.Unlock()

	if repo.buckets[bucketUrl] == nil {
		bucket, err := blob.OpenBucket(ctx, bucketUrl)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open bucket %s", bucketUrl)
		}

		ok, err := bucket.IsAccessible(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to check bucket accessibility %s", bucketUrl)
		} else if !ok {
			return nil, errors.Newf("bucket %s is not accessible", bucketUrl)
		}

		repo.buckets[bucketUrl] = bucket
	}
	return repo.buckets[bucketUrl], nil
}

// GetBlob opens a reader on the object. Reads are idempotent, so transient
// storage errors are retried a bounded number of times with linear backoff.
// Mutating calls are never auto-retried.
func (repo *blobRepository) GetBlob(ctx context.Context, bucketUrl, fileName string) (models.Blob, error) {
	bucket, err := repo.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return models.Blob{}, err
	}

	logger := utils.LoggerFromContext(ctx)

	reader, err := retry.DoWithData(
		func() (*blob.Reader, error) {
			return bucket.NewReader(ctx, fileName, nil)
		},
		retry.Context(ctx),
		retry.Attempts(blobReadRetryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.WarnContext(ctx, fmt.Sprintf("retrying blob read %s/%s: %v", bucketUrl, fileName, err))
		}),
	)
	if err != nil {
		return models.Blob{}, errors.Wrapf(err, "failed to read object %s/%s", bucketUrl, fileName)
	}

	return models.Blob{FileName: fileName, ReadCloser: reader}, nil
}

func (repo *blobRepository) OpenStream(ctx context.Context, bucketUrl, fileName string) (io.WriteCloser, error) {
	bucket, err := repo.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return nil, err
	}

	return bucket.NewWriter(ctx, fileName, &blob.WriterOptions{
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", fileName),
	})
}

func (repo *blobRepository) DeleteFile(ctx context.Context, bucketUrl, fileName string) error {
	bucket, err := repo.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	return bucket.Delete(ctx, fileName)
}

func (repo *blobRepository) ListFiles(ctx context.Context, bucketUrl, prefix string) ([]string, error) {
	bucket, err := repo.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return nil, err
	}

	var names []string
	iter := bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list objects in %s under %s", bucketUrl, prefix)
		}
		names = append(names, obj.Key)
	}
	return names, nil
}

func (repo *blobRepository) GenerateSignedUrl(ctx context.Context, bucketUrl, fileName string, expiry time.Duration) (string, error) {
	bucket, err := repo.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return "", err
	}

	return bucket.SignedURL(
		ctx,
		fileName,
		&blob.SignedURLOptions{
			Method: http.MethodGet,
			Expiry: expiry,
		})
}
