package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env       Env
	Minio     MinioConfig
	Upload    FileUploadConfig
	NATS      NATSConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Pipeline  PipelineConfig
	Server    ServerConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type FileUploadConfig struct {
	MaxChunkSize    int64         `envconfig:"UPLOAD_MAX_CHUNK_SIZE" default:"10485760"` // 10MB
	MaxChunks       int           `envconfig:"UPLOAD_MAX_CHUNKS" default:"1000"`
	MaxFileSize     int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"524288000"`    // 500MB
	MaxRequestBytes int64         `envconfig:"UPLOAD_MAX_REQUEST_BYTES" default:"20971520"` // 20MB
	SessionTTL      time.Duration `envconfig:"UPLOAD_SESSION_TTL" default:"24h"`
	CompletionLease time.Duration `envconfig:"UPLOAD_COMPLETION_LEASE" default:"10m"`
	CleanupEvery    time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"15m"`
}

type NATSConfig struct {
	URL          string        `envconfig:"NATS_URL" required:"true"`
	StreamName   string        `envconfig:"NATS_STREAM_NAME" default:"STARMUS_JOBS"`
	ConsumerName string        `envconfig:"NATS_CONSUMER_NAME" default:"starmus-processor"`
	Subject      string        `envconfig:"STARMUS_JOB_SUBJECT" default:"starmus.jobs.process"`
	AckWait      time.Duration `envconfig:"NATS_ACK_WAIT" default:"5m"`
	MaxDeliver   int           `envconfig:"NATS_MAX_DELIVER" default:"5"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type RateLimitConfig struct {
	Max    int           `envconfig:"RATE_LIMIT_MAX" default:"10"`
	Window time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1h"`
}

type PipelineConfig struct {
	FFmpegBinary            string        `envconfig:"PIPELINE_FFMPEG_BINARY" default:"ffmpeg"`
	AudiowaveformBinary     string        `envconfig:"PIPELINE_AUDIOWAVEFORM_BINARY" default:"audiowaveform"`
	WorkDir                 string        `envconfig:"PIPELINE_WORK_DIR" default:""`
	MP3Bitrate              string        `envconfig:"PIPELINE_MP3_BITRATE" default:"192k"`
	LoudnessTarget          float64       `envconfig:"PIPELINE_LOUDNESS_TARGET" default:"-16"`
	WaveformPixelsPerSecond int           `envconfig:"PIPELINE_WAVEFORM_PPS" default:"20"`
	JobDelay                time.Duration `envconfig:"PIPELINE_JOB_DELAY" default:"0s"`
	DispatchEvery           time.Duration `envconfig:"PIPELINE_DISPATCH_EVERY" default:"1m"`
	DispatchGrace           time.Duration `envconfig:"PIPELINE_DISPATCH_GRACE" default:"2m"`
	RepublishAfter          time.Duration `envconfig:"PIPELINE_REPUBLISH_AFTER" default:"1h"`
	StageTimeout            time.Duration `envconfig:"PIPELINE_STAGE_TIMEOUT" default:"15m"`
}

func Load() (*Config, error) {
	var cfg Config

	// a missing .env is fine, the environment may already be populated
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
