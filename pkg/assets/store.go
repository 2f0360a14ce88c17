package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"solemate-be/internal/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/patrickmn/go-cache"
)

// PlaceholderURL is shown when a product image cannot be fetched
const PlaceholderURL = "https://via.placeholder.com/300x200?text=No+Image"

const maxImageBytes = 10 * 1024 * 1024

// ObjectGetter is the subset of the S3 client the store needs
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Image is a cached product image
type Image struct {
	Data        []byte
	ContentType string
}

// Store fetches product images by opaque reference. Misses are cached too so a
// broken reference does not hit the bucket on every render.
type Store struct {
	client  ObjectGetter
	bucket  string
	prefix  string
	cache   *cache.Cache
	timeout time.Duration
	logger  logger.ILogger
}

func NewStore(client ObjectGetter, bucket, prefix string, ttl time.Duration, timeout time.Duration, log logger.ILogger) *Store {
	return &Store{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		cache:   cache.New(ttl, 2*ttl),
		timeout: timeout,
		logger:  log,
	}
}

// Fetch returns the image and true, or nil and false when it is unavailable.
// It never returns an error: callers fall back to PlaceholderURL.
func (s *Store) Fetch(ctx context.Context, ref string) (*Image, bool) {
	key, ok := s.objectKey(ref)
	if !ok {
		return nil, false
	}

	if x, found := s.cache.Get(key); found {
		img, _ := x.(*Image)
		return img, img != nil
	}

	img, err := s.load(ctx, key)
	if err != nil {
		s.logger.Warn("ASSETS", "Image unavailable", map[string]interface{}{
			"ref":   ref,
			"error": err.Error(),
		})
		s.cache.Set(key, (*Image)(nil), cache.DefaultExpiration)
		return nil, false
	}

	s.cache.Set(key, img, cache.DefaultExpiration)
	return img, true
}

func (s *Store) load(ctx context.Context, key string) (*Image, error) {
	if s.client == nil || s.bucket == "" {
		return nil, fmt.Errorf("image bucket not configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" || contentType == "binary/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &Image{Data: data, ContentType: contentType}, nil
}

// objectKey rejects empty references and path traversal
func (s *Store) objectKey(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.Contains(ref, "..") || strings.ContainsAny(ref, "/\\") {
		return "", false
	}
	return path.Join(s.prefix, ref), true
}
