// Package s3 delivers payloads to S3-compatible object storage. Importing the
// package registers it for the s3 delivery method.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"airstage/internal/backend"
	"airstage/internal/services"
	"airstage/internal/station"
)

func init() {
	backend.Register(station.MethodS3, func(delivery station.DeliveryConfig, _ backend.Options) (backend.Backend, error) {
		return New(context.Background(), delivery)
	})
}

// Client implements backend.Backend against one bucket. Object keys are the
// backend paths with slashes preserved.
type Client struct {
	api    *awss3.Client
	bucket string
}

var _ backend.Backend = (*Client)(nil)

// New builds a client from a station's delivery block. Explicit credentials
// in the profile win; otherwise the SDK's default chain applies.
func New(ctx context.Context, delivery station.DeliveryConfig) (*Client, error) {
	if err := validate(delivery); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if delivery.Region != "" {
		opts = append(opts, awsconfig.WithRegion(delivery.Region))
	}
	if delivery.AccessKeyID != "" && delivery.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(delivery.AccessKeyID, delivery.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "s3", "load config", "aws configuration", err)
	}
	if awsCfg.Region == "" {
		// Compatible stores rarely care about region but the SDK requires one.
		awsCfg.Region = "us-east-1"
	}

	api := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if delivery.Endpoint != "" {
			o.BaseEndpoint = aws.String(delivery.Endpoint)
		}
		if delivery.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return &Client{api: api, bucket: delivery.Bucket}, nil
}

func validate(delivery station.DeliveryConfig) error {
	if delivery.Bucket == "" {
		return services.Wrap(services.ErrConfiguration, "s3", "validate", "bucket is required", nil)
	}
	if delivery.Endpoint != "" {
		u, err := url.Parse(delivery.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return services.Wrap(services.ErrConfiguration, "s3", "validate",
				fmt.Sprintf("endpoint %q must be a full URL", delivery.Endpoint), err)
		}
	}
	if (delivery.AccessKeyID == "") != (delivery.SecretKey == "") {
		return services.Wrap(services.ErrConfiguration, "s3", "validate",
			"access key id and secret key must be set together", nil)
	}
	return nil
}

// Put uploads the payload as a single object. S3 object writes are atomic, so
// no temp-and-rename dance applies here.
func (c *Client) Put(ctx context.Context, destPath string, src backend.Source) error {
	body, closeBody, err := sourceReader(src)
	if err != nil {
		return err
	}
	defer closeBody()

	_, err = c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key(destPath)),
		Body:   body,
	})
	if err != nil {
		return services.Wrap(services.ErrIO, "s3", "put", fmt.Sprintf("upload %s", destPath), err)
	}
	return nil
}

// Rename is copy-then-delete; S3 has no native move.
func (c *Client) Rename(ctx context.Context, fromPath, toPath string) error {
	from := key(fromPath)
	to := key(toPath)

	_, err := c.api.CopyObject(ctx, &awss3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		CopySource: aws.String(c.bucket + "/" + from),
		Key:        aws.String(to),
	})
	if err != nil {
		return services.Wrap(services.ErrIO, "s3", "rename", fmt.Sprintf("copy %s to %s", fromPath, toPath), err)
	}
	_, err = c.api.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(from),
	})
	if err != nil {
		return services.Wrap(services.ErrIO, "s3", "rename", fmt.Sprintf("delete %s after copy", fromPath), err)
	}
	return nil
}

// Verify heads the object and checks for a nonzero length. A missing object
// is a clean (false, nil).
func (c *Client) Verify(ctx context.Context, path string) (bool, error) {
	out, err := c.api.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key(path)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, services.Wrap(services.ErrIO, "s3", "verify", fmt.Sprintf("head %s", path), err)
	}
	return out.ContentLength != nil && *out.ContentLength > 0, nil
}

// sourceReader returns a seekable body so the SDK can rewind on retry.
func sourceReader(src backend.Source) (io.ReadSeeker, func(), error) {
	if src.Path != "" && src.Bytes != nil {
		return nil, nil, services.Wrap(services.ErrIO, "s3", "put", "source has both path and bytes", nil)
	}
	if src.Bytes != nil {
		return bytes.NewReader(src.Bytes), func() {}, nil
	}
	if src.Path == "" {
		return nil, nil, services.Wrap(services.ErrIO, "s3", "put", "source has neither path nor bytes", nil)
	}
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrIO, "s3", "put", fmt.Sprintf("open %s", src.Path), err)
	}
	return f, func() { _ = f.Close() }, nil
}

func key(path string) string {
	return strings.TrimPrefix(strings.ReplaceAll(path, "\\", "/"), "/")
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
