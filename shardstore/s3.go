package shardstore

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	pkgerrors "github.com/pkg/errors"
)

// S3Store is a ShardStore backed by an S3 bucket/prefix, for clusters
// that stage shard files in object storage between the split workers
// (which may run on different hosts than the merge workers) and to avoid
// relying on a shared POSIX filesystem.
type S3Store struct {
	Bucket string
	Prefix string

	sess       *session.Session
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
	client     *s3.S3
}

// NewS3Store returns an S3Store for the given bucket and key prefix,
// using the default AWS credential chain.
func NewS3Store(bucket, prefix string) (*S3Store, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "shardstore: creating AWS session")
	}
	return &S3Store{
		Bucket:     bucket,
		Prefix:     prefix,
		sess:       sess,
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
		client:     s3.New(sess),
	}, nil
}

func (s *S3Store) fullKey(key string) string {
	if s.Prefix == "" {
		return key
	}
	return s.Prefix + "/" + key
}

// s3Writer buffers writes in memory and uploads on Close, since
// s3manager.Uploader needs a reader, not a streaming writer. Shard files
// are bounded by a single split worker's partition, so this is
// acceptable; a production deployment handling unbounded shard sizes
// would stream via multipart upload directly instead.
type s3Writer struct {
	store *S3Store
	key   string
	buf   bytes.Buffer
}

func (w *s3Writer) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *s3Writer) Close() error {
	_, err := w.store.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(w.store.Bucket),
		Key:    aws.String(w.store.fullKey(w.key)),
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	return pkgerrors.Wrapf(err, "shardstore: uploading s3://%s/%s", w.store.Bucket, w.store.fullKey(w.key))
}

// Create implements ShardStore.
func (s *S3Store) Create(_ context.Context, key string) (io.WriteCloser, error) {
	return &s3Writer{store: s, key: key}, nil
}

// Open implements ShardStore.
func (s *S3Store) Open(_ context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.fullKey(key)),
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "shardstore: opening s3://%s/%s", s.Bucket, s.fullKey(key))
	}
	return out.Body, nil
}

// Remove implements ShardStore.
func (s *S3Store) Remove(_ context.Context, key string) error {
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.fullKey(key)),
	})
	return pkgerrors.Wrapf(err, "shardstore: deleting s3://%s/%s", s.Bucket, s.fullKey(key))
}
