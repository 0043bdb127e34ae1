// Package loaders provides [spanav.Loader] implementations that fetch view
// fragments from a file system or from S3 compatible object storage.
package loaders

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/a-h/templ"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jackielii/spanav"
)

// FS loads the HTML fragment name from fsys. The fragment is trusted markup
// and rendered unescaped.
func FS(fsys fs.FS, name string) spanav.Loader {
	return func(ctx context.Context) (spanav.View, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read fragment %s: %w", name, err)
		}
		return templ.Raw(string(data)), nil
	}
}

// ObjectGetter is the part of [s3.Client] used by S3.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 loads the HTML fragment stored at bucket/key.
func S3(client ObjectGetter, bucket, key string) spanav.Loader {
	return func(ctx context.Context) (spanav.View, error) {
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
		}
		defer out.Body.Close()
		data, err := io.ReadAll(out.Body)
		if err != nil {
			return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
		}
		return templ.Raw(string(data)), nil
	}
}

// NewS3Client returns an S3 client for region. A non-empty endpoint selects an
// S3 compatible service with path-style addressing. Requests are unsigned,
// which suits public buckets; configure credentials on the options otherwise.
func NewS3Client(region, endpoint string, optFns ...func(*s3.Options)) *s3.Client {
	opts := s3.Options{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts, optFns...)
}
