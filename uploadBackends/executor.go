package uploadbackends

import (
	"context"
	"fmt"
	"io"
)

// UploadImage writes one optimized image to the backend selected by
// backendType and returns the public URL under which it is reachable.
// accessInfo carries backend credentials plus "folder" and "filename" keys;
// each write destination has different credentials and its own write
// implementation.
func UploadImage(ctx context.Context, accessInfo map[string]string, reader io.Reader, backendType string) (string, error) {
	switch backendType {
	case "directServe":
		url, err := UploadToDirectServe(ctx, accessInfo, reader)
		if err != nil {
			return "", fmt.Errorf("failed to upload to direct serve: %w", err)
		}
		return url, nil
	case "s3":
		url, err := UploadToS3WithCreds(ctx, accessInfo, reader)
		if err != nil {
			return "", fmt.Errorf("failed to upload to S3: %w", err)
		}
		return url, nil
	case "gcs":
		url, err := UploadToGCSWithJSON(ctx, accessInfo, reader)
		if err != nil {
			return "", fmt.Errorf("failed to upload to GCS: %w", err)
		}
		return url, nil
	case "sftp":
		url, err := UploadToSFTPWithCreds(ctx, accessInfo, reader)
		if err != nil {
			return "", fmt.Errorf("failed to upload to SFTP: %w", err)
		}
		return url, nil
	default:
		return "", fmt.Errorf("unknown backend type: %s", backendType)
	}
}
