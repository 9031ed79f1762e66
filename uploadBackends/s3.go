package uploadbackends

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"pixbatch/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadToS3WithCreds uploads content from an io.Reader to an S3 object and
// returns its public URL. Fully self-contained, initializing its own client
// from the access info.
func UploadToS3WithCreds(ctx context.Context, accessInfo map[string]string, reader io.Reader) (string, error) {
	creds := credentials.NewStaticCredentialsProvider(accessInfo["accessKey"], accessInfo["secretKey"], "")
	bucket := accessInfo["bucket"]
	region := accessInfo["region"]
	key := path.Join(accessInfo["folder"], accessInfo["filename"])

	s3Client := s3.New(s3.Options{
		Region:      region,
		Credentials: creds,
	})

	uploader := manager.NewUploader(s3Client)

	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, bucket, err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
	if base := accessInfo["publicBase"]; base != "" {
		// CDN or website endpoint in front of the bucket.
		url = strings.TrimRight(base, "/") + "/" + key
	}

	logger.Infof("Successfully uploaded object '%s' to bucket '%s'", key, bucket)
	return url, nil
}
