package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseDSN string
	JWTSecret   string
	Env         string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	BlobBackend string // "local" 或 "s3"
	UploadDir   string
	MaxUploadMB int

	S3Endpoint string
	S3Region   string
	S3Bucket   string
	S3User     string
	S3Password string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(getenv(key, ""))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// Load 从环境变量（以及可选的 .env 文件）加载配置。
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseDSN: getenv("DATABASE_DSN", "chat.db"),
		JWTSecret:   getenv("JWT_SECRET", "dev-secret-change-me"),
		Env:         getenv("APP_ENV", "dev"),

		SMTPHost:     getenv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUser:     getenv("EMAIL_USER", ""),
		SMTPPassword: getenv("EMAIL_PASSWORD", ""),
		MailFrom:     getenv("MAIL_FROM", getenv("EMAIL_USER", "")),

		BlobBackend: getenv("BLOB_BACKEND", "local"),
		UploadDir:   getenv("UPLOAD_DIR", "static/uploads"),
		MaxUploadMB: getenvInt("MAX_UPLOAD_MB", 16),

		S3Endpoint: getenv("S3_ENDPOINT", ""),
		S3Region:   getenv("S3_REGION", "us-east-1"),
		S3Bucket:   getenv("S3_BUCKET", "mailchat"),
		S3User:     getenv("S3_USER", ""),
		S3Password: getenv("S3_PASSWORD", ""),
	}
}

// Validate 检查配置是否可用于启动：prod 环境禁止默认密钥。
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is empty")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: database dsn is empty")
	}
	if cfg.Env != "dev" && cfg.JWTSecret == "dev-secret-change-me" {
		return errors.New("config: default jwt secret not allowed outside dev")
	}
	if cfg.BlobBackend != "local" && cfg.BlobBackend != "s3" {
		return errors.New("config: blob backend must be local or s3")
	}
	if cfg.BlobBackend == "s3" && cfg.S3Endpoint == "" {
		return errors.New("config: s3 backend requires S3_ENDPOINT")
	}
	return nil
}
