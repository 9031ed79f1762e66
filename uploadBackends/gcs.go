package uploadbackends

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"pixbatch/logger"
)

// UploadToGCSWithJSON uploads content from an io.Reader to a Google Cloud
// Storage object, using a service account key provided as base64 in the
// access info, and returns the object's public URL.
func UploadToGCSWithJSON(ctx context.Context, accessInfo map[string]string, reader io.Reader) (string, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(accessInfo["credentialsJSON"])
	if err != nil {
		// Not base64, assume raw JSON.
		credentialsJSON = []byte(accessInfo["credentialsJSON"])
	}
	bucketName := accessInfo["bucket"]
	objectName := path.Join(accessInfo["folder"], accessInfo["filename"])

	client, err := storage.NewClient(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return "", fmt.Errorf("storage.NewClient: %w", err)
	}
	defer client.Close()

	obj := client.Bucket(bucketName).Object(objectName)

	wc := obj.NewWriter(ctx)
	if _, err = io.Copy(wc, reader); err != nil {
		return "", fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("Writer.Close: %w", err)
	}

	logger.Infof("Successfully uploaded object '%s' to bucket '%s'", objectName, bucketName)
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName), nil
}
