package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// LINE Messaging API
	ChannelAccessToken string `envconfig:"CHANNEL_ACCESS_TOKEN"`
	ChannelSecret      string `envconfig:"CHANNEL_SECRET"`

	// Record store, redis:// or postgres://
	StoreURL string `envconfig:"STORE_URL"`
	RedisURL string `envconfig:"REDIS_URL"`

	// Media relay, "cloudinary" or "s3"
	MediaBackend string `envconfig:"MEDIA_BACKEND" default:"cloudinary"`

	CloudinaryName   string `envconfig:"CLOUDINARY_NAME"`
	CloudinaryKey    string `envconfig:"CLOUDINARY_KEY"`
	CloudinarySecret string `envconfig:"CLOUDINARY_SECRET"`
	CloudinaryFolder string `envconfig:"CLOUDINARY_FOLDER" default:"landmarks"`

	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3BucketName      string `envconfig:"S3_BUCKET_NAME"`
	S3Region          string `envconfig:"S3_REGION" default:"us-east-1"`
	S3BaseEndpoint    string `envconfig:"S3_BASE_ENDPOINT"`
	// Base for returned object URLs. Empty means virtual-hosted AWS style.
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`
}

const (
	MediaBackendCloudinary = "cloudinary"
	MediaBackendS3         = "s3"
)
