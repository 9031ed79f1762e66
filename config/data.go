package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// envString returns the value of the environment variable or the default.
func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt parses the environment variable as an integer, falling back to the
// default when unset or malformed.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// envInt64 parses the environment variable as a 64-bit integer.
func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

// envDuration parses the environment variable with time.ParseDuration.
func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// GetDataDir returns the directory where pixbatch keeps its databases.
// Configurable via PIXBATCH_DATA_DIR for different deployment environments.
func GetDataDir() string {
	return envString("PIXBATCH_DATA_DIR", "./data")
}

// GetHistoryDBPath returns the full path to the job history database.
// The history database records terminal job outcomes for operator queries.
// Path: {DATA_DIR}/history.db
func GetHistoryDBPath() string {
	return filepath.Join(GetDataDir(), "history.db")
}

// GetServeDir returns the base directory for direct file serving.
// Optimized images written by the directServe backend live here and are
// served by the HTTP server under /files/.
// Configurable via PIXBATCH_SERVE_DIR, not by end users.
func GetServeDir() string {
	return envString("PIXBATCH_SERVE_DIR", "./serve")
}

// GetPublicBaseURL returns the URL prefix under which directServe files are
// reachable from outside. Used to build the hosted URLs returned to clients.
func GetPublicBaseURL() string {
	return envString("PIXBATCH_PUBLIC_BASE_URL", "http://localhost:8080/files")
}

// GetListenAddr returns the HTTP listen address.
func GetListenAddr() string {
	return envString("PIXBATCH_ADDR", ":8080")
}

// GetMaxBatchSize returns the maximum number of images accepted per job.
func GetMaxBatchSize() int {
	return envInt("PIXBATCH_MAX_BATCH", 20)
}

// GetRateLimitMax returns the maximum submissions per identity per window.
func GetRateLimitMax() int {
	return envInt("PIXBATCH_RATE_MAX", 10)
}

// GetRateLimitWindow returns the fixed admission-control window duration.
func GetRateLimitWindow() time.Duration {
	return envDuration("PIXBATCH_RATE_WINDOW", time.Minute)
}

// GetGlobalRateLimit returns the server-wide requests-per-second cap applied
// in front of every endpoint, and its burst size.
func GetGlobalRateLimit() (rps, burst int) {
	return envInt("PIXBATCH_GLOBAL_RPS", 100), envInt("PIXBATCH_GLOBAL_BURST", 200)
}

// GetSizeCeiling returns the per-item optimized size, in bytes, at which a
// batch switches from individually hosted links to a single archive.
func GetSizeCeiling() int64 {
	return envInt64("PIXBATCH_SIZE_CEILING", 10<<20)
}

// GetEvictAfter returns how long a terminal job state stays pollable before
// the store evicts it.
func GetEvictAfter() time.Duration {
	return envDuration("PIXBATCH_EVICT_AFTER", 5*time.Minute)
}

// GetUploadBackend returns the configured upload backend type.
// One of: directServe, s3, gcs, sftp.
func GetUploadBackend() string {
	return envString("PIXBATCH_UPLOAD_BACKEND", "directServe")
}

// GetUploadAccessInfo assembles the credential/destination map consumed by
// the upload backends from backend-specific environment variables.
func GetUploadAccessInfo() map[string]string {
	switch GetUploadBackend() {
	case "s3":
		return map[string]string{
			"accessKey":  os.Getenv("PIXBATCH_S3_ACCESS_KEY"),
			"secretKey":  os.Getenv("PIXBATCH_S3_SECRET_KEY"),
			"region":     os.Getenv("PIXBATCH_S3_REGION"),
			"bucket":     os.Getenv("PIXBATCH_S3_BUCKET"),
			"publicBase": os.Getenv("PIXBATCH_S3_PUBLIC_BASE"),
		}
	case "gcs":
		return map[string]string{
			"credentialsJSON": os.Getenv("PIXBATCH_GCS_CREDENTIALS_JSON"),
			"bucket":          os.Getenv("PIXBATCH_GCS_BUCKET"),
		}
	case "sftp":
		return map[string]string{
			"host":       os.Getenv("PIXBATCH_SFTP_HOST"),
			"port":       os.Getenv("PIXBATCH_SFTP_PORT"),
			"user":       os.Getenv("PIXBATCH_SFTP_USER"),
			"password":   os.Getenv("PIXBATCH_SFTP_PASSWORD"),
			"privateKey": os.Getenv("PIXBATCH_SFTP_PRIVATE_KEY"),
			"remoteDir":  os.Getenv("PIXBATCH_SFTP_REMOTE_DIR"),
			"publicBase": os.Getenv("PIXBATCH_SFTP_PUBLIC_BASE"),
		}
	default:
		return map[string]string{
			"baseDir":    GetServeDir(),
			"publicBase": GetPublicBaseURL(),
		}
	}
}
