package s3stage

import (
	"context"
	"fmt"
	"os"
	"time"

	"solemate-be/pkg/vision"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the subset of the S3 client used for staging
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Stager uploads images to a bucket and hands out presigned URLs, for
// vision models that take an image URL instead of a file handle.
type Stager struct {
	objects   ObjectAPI
	presigner PresignAPI
	bucket    string
	prefix    string
	expires   time.Duration
}

func NewStager(objects ObjectAPI, presigner PresignAPI, bucket string) *Stager {
	return &Stager{
		objects:   objects,
		presigner: presigner,
		bucket:    bucket,
		prefix:    "vision-staging/",
		expires:   15 * time.Minute,
	}
}

// Factory builds a vision.StagerFactory over a shared S3 client
func Factory(client *s3.Client, bucket string) vision.StagerFactory {
	presigner := s3.NewPresignClient(client)
	return func(ctx context.Context) (vision.Stager, error) {
		if bucket == "" {
			return nil, fmt.Errorf("staging bucket not configured")
		}
		return NewStager(client, presigner, bucket), nil
	}
}

func (s *Stager) Stage(ctx context.Context, localPath, name, mimeType string) (*vision.StagedObject, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	key := s.prefix + name
	if _, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(mimeType),
	}); err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	obj := &vision.StagedObject{Name: key, MIMEType: mimeType, Status: "MISSING"}

	if _, err := s.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return obj, nil
	}

	presigned, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		obj.Status = "UNSIGNED"
		return obj, nil
	}

	obj.URI = presigned.URL
	obj.Status = vision.StatusActive
	return obj, nil
}

func (s *Stager) Release(ctx context.Context, obj *vision.StagedObject) error {
	if obj == nil || obj.Name == "" {
		return nil
	}
	_, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(obj.Name),
	})
	return err
}

// Close is a no-op: the S3 client is shared and holds no per-call state
func (s *Stager) Close() error {
	return nil
}
