package fs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for an S3 or S3-compatible bucket.
type S3Config struct {
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	EndpointURL    string // For S3-compatible services (MinIO, LocalStack)
	ForcePathStyle bool   // Required for MinIO
}

// S3FileSystem exposes an S3 bucket as a FileSystem using delimiter
// listings: common prefixes become directories and objects become
// files. Object storage has no block placement, so each non-empty
// object is reported with a single block location spanning the object.
type S3FileSystem struct {
	client *s3.Client
	bucket string
}

// NewS3FileSystem creates a FileSystem over the configured bucket.
func NewS3FileSystem(ctx context.Context, cfg *S3Config) (*S3FileSystem, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	cfgOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3FileSystem{client: client, bucket: cfg.Bucket}, nil
}

// ListDirectory lists one level of the bucket under dir. Directory
// marker objects (keys ending in "/") are skipped; they have no
// content of their own.
func (f *S3FileSystem) ListDirectory(ctx context.Context, dir string) ([]DirectoryEntry, error) {
	prefix := strings.TrimPrefix(dir, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var entries []DirectoryEntry
	found := false

	paginator := s3.NewListObjectsV2Paginator(f.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(f.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %w", f.bucket, prefix, err)
		}

		for _, cp := range page.CommonPrefixes {
			found = true
			entries = append(entries, DirectoryEntry{
				Status: FileStatus{
					Path:  "/" + strings.TrimSuffix(aws.ToString(cp.Prefix), "/"),
					IsDir: true,
				},
			})
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			found = true
			if strings.HasSuffix(key, "/") {
				// directory marker
				continue
			}
			size := aws.ToInt64(obj.Size)
			entry := DirectoryEntry{
				Status: FileStatus{
					Path:    "/" + key,
					Size:    size,
					ModTime: modTime(obj.LastModified),
				},
			}
			if size > 0 {
				entry.BlockLocations = []BlockLocation{{
					Offset: 0,
					Length: size,
				}}
			}
			entries = append(entries, entry)
		}
	}

	// S3 has no real directories: an empty listing means the prefix
	// does not exist.
	if !found {
		return nil, NewPathNotFoundError(dir)
	}
	return entries, nil
}

func modTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
