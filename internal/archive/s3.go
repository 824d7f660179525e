package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Vovarama1992/essay_bot/internal/config"
	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type objectPutter interface {
	PutObject(
		ctx context.Context,
		bucket, key string,
		r io.Reader,
		size int64,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
}

type s3Archive struct {
	client objectPutter
	bucket string
	log    *zap.SugaredLogger
}

func NewS3Archive(ctx context.Context, cfg config.S3Config, log *zap.SugaredLogger) (Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: true,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	// проверим, что бакет существует
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &s3Archive{client: client, bucket: cfg.Bucket, log: log}, nil
}

// ObjectKey: путь в бакете: kind/telegram_id/дата/id.json
func ObjectKey(e Entry) string {
	return fmt.Sprintf(
		"%s/%d/%s/%s.json",
		e.Kind,
		e.TelegramID,
		e.CreatedAt.Format("2006-01-02"),
		e.ID,
	)
}

func (a *s3Archive) Save(ctx context.Context, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	key := ObjectKey(e)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(b), int64(len(b)), minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	a.log.Infow("[archive] saved", "key", key, "size", humanize.Bytes(uint64(len(b))))
	return nil
}
