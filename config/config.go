package config

import "os"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Config holds the service configuration loaded from environment variables.
type Config struct {
	Port            string
	DatabaseDSN     string
	StorageDriver   string
	UploadDir       string
	UploadURLPrefix string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool
	MinioPublicURL  string
	RedisAddr       string
	RedisPassword   string
}

func Load() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		DatabaseDSN:     getenv("DATABASE_DSN", "host=localhost port=5432 user=blog password=blog dbname=blog sslmode=disable"),
		StorageDriver:   getenv("STORAGE_DRIVER", StorageLocal),
		UploadDir:       getenv("UPLOAD_DIR", "./static/images"),
		UploadURLPrefix: getenv("UPLOAD_URL_PREFIX", "/static/images"),
		MinioEndpoint:   getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:  getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:  getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:     getenv("MINIO_BUCKET", "post-images"),
		MinioUseSSL:     getenv("MINIO_USE_SSL", "false") == "true",
		MinioPublicURL:  getenv("MINIO_PUBLIC_URL", ""),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
