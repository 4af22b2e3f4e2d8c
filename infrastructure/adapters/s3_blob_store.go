package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/config"
	"github.com/jamieforrest/speakyer-proc/domain"
)

type s3BlobStore struct {
	logger      outbound.LoggerPort
	s3Svc       s3iface.S3API
	storeConfig *config.StoreConfig
}

func NewS3BlobStore(logger outbound.LoggerPort, s3Svc s3iface.S3API, storeConfig *config.StoreConfig) outbound.BlobStorePort {
	return &s3BlobStore{
		logger:      logger,
		s3Svc:       s3Svc,
		storeConfig: storeConfig,
	}
}

func (s *s3BlobStore) Exists(ctx context.Context, location string, key string) (bool, error) {
	_, err := s.s3Svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(location),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isS3NotFound(err) {
		return false, nil
	}
	s.logger.ErrorWithFields(err, "Failed to check object existence", map[string]interface{}{
		"bucket": location,
		"key":    key,
	})
	return false, err
}

func (s *s3BlobStore) ReadText(ctx context.Context, location string, key string) (string, error) {
	out, err := s.s3Svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(location),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return "", fmt.Errorf("%s/%s: %w", location, key, domain.ErrNotFound)
		}
		s.logger.ErrorWithFields(err, "Failed to get object from S3", map[string]interface{}{
			"bucket": location,
			"key":    key,
		})
		return "", err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			s.logger.Error(err, "Failed to close the object body")
		}
	}(out.Body)

	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (s *s3BlobStore) WriteText(ctx context.Context, location string, key string, text string) error {
	return s.WriteBytes(ctx, location, key, []byte(text))
}

func (s *s3BlobStore) WriteBytes(ctx context.Context, location string, key string, data []byte) error {
	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(location),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentTypeFor(key)),
	}

	_, err := s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": location,
			"key":    key,
		})
		return err
	}

	s.logger.DebugWithFields("Successfully uploaded object to S3", map[string]interface{}{
		"bucket": location,
		"key":    key,
		"bytes":  len(data),
	})
	return nil
}

// List walks every listing page.
func (s *s3BlobStore) List(ctx context.Context, location string, prefix string) ([]domain.StoredObject, error) {
	objects := make([]domain.StoredObject, 0)
	err := s.s3Svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(location),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			objects = append(objects, domain.StoredObject{
				Key:          aws.StringValue(obj.Key),
				Size:         aws.Int64Value(obj.Size),
				LastModified: aws.TimeValue(obj.LastModified),
			})
		}
		return true
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to list objects", map[string]interface{}{
			"bucket": location,
			"prefix": prefix,
		})
		return nil, err
	}
	return objects, nil
}

func (s *s3BlobStore) PublicURL(location string, key string) string {
	if s.storeConfig != nil && s.storeConfig.PublicBaseUrl != "" {
		return strings.TrimSuffix(s.storeConfig.PublicBaseUrl, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", location, key)
}

func isS3NotFound(err error) bool {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

func contentTypeFor(key string) string {
	switch path.Ext(key) {
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".mp3":
		return domain.AudioMediaType
	case ".xml":
		return "application/rss+xml"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
