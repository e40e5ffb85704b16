package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application configuration. Loaded once and passed by value/pointer
// into every component constructor; there is no package-level instance.
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	API             APIConfig             `mapstructure:"api"`
	Storage         StorageConfig         `mapstructure:"storage"`
	Public          PublicConfig          `mapstructure:"public"`
	Download        DownloadConfig        `mapstructure:"download"`
	Transcode       TranscodeConfig       `mapstructure:"transcode"`
	Cleanup         CleanupConfig         `mapstructure:"cleanup"`
	Log             LogConfig             `mapstructure:"log"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	Minio           MinioConfig           `mapstructure:"minio"`
	Etcd            EtcdConfig            `mapstructure:"etcd"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
	GRPCServer      GRPCServerConfig      `mapstructure:"grpc_server"`
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	ServeHLS     bool          `mapstructure:"serve_hls"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig request authentication and CORS
type APIConfig struct {
	Key            string   `mapstructure:"key"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig working directories and publish backend
type StorageConfig struct {
	RawDir  string `mapstructure:"raw_dir"`
	HLSDir  string `mapstructure:"hls_dir"`
	Backend string `mapstructure:"backend"` // local | minio
}

// PublicConfig public addressing of published packages
type PublicConfig struct {
	HLSBaseURL string `mapstructure:"hls_base_url"`
}

// DownloadConfig source fetch settings
type DownloadConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	UserAgent          string        `mapstructure:"user_agent"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
}

// TranscodeConfig encoder configuration
type TranscodeConfig struct {
	FFmpeg     FFmpegConfig      `mapstructure:"ffmpeg"`
	HLS        HLSConfig         `mapstructure:"hls"`
	Renditions []RenditionConfig `mapstructure:"renditions"`
}

// FFmpegConfig FFmpeg related configuration
type FFmpegConfig struct {
	BinaryPath      string        `mapstructure:"binary_path"`
	ProbeBinaryPath string        `mapstructure:"probe_binary_path"`
	Timeout         time.Duration `mapstructure:"timeout"`
	VideoCodec      string        `mapstructure:"video_codec"`
	VideoPreset     string        `mapstructure:"video_preset"`
	AudioCodec      string        `mapstructure:"audio_codec"`
	AudioBitrate    string        `mapstructure:"audio_bitrate"`
	AudioSampleRate int           `mapstructure:"audio_sample_rate"`
	Threads         int           `mapstructure:"threads"`
}

// HLSConfig packaging options
type HLSConfig struct {
	SegmentDuration int    `mapstructure:"segment_duration"`
	ListSize        int    `mapstructure:"list_size"` // 0 keeps every segment
	MasterName      string `mapstructure:"master_name"`
}

// RenditionConfig one rung of the bitrate ladder. Order is significant.
type RenditionConfig struct {
	Height  int    `mapstructure:"height"`
	Bitrate string `mapstructure:"bitrate"`
	MaxRate string `mapstructure:"maxrate"`
	BufSize string `mapstructure:"bufsize"`
}

// CleanupConfig original handling and retention
type CleanupConfig struct {
	DeleteOriginal bool          `mapstructure:"delete_original"`
	MaxAgeDays     int           `mapstructure:"max_age_days"` // 0 never purges
	Interval       time.Duration `mapstructure:"interval"`     // 0 disables the background sweep
	LockTTL        time.Duration `mapstructure:"lock_ttl"`
}

// LogConfig logging configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Verbose  bool   `mapstructure:"verbose"`
	Output   string `mapstructure:"output"` // file | stdout | both
	Filename string `mapstructure:"filename"`
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

// KafkaConfig Kafka configuration
type KafkaConfig struct {
	Enabled          bool              `mapstructure:"enabled"`
	BootstrapServers []string          `mapstructure:"bootstrap_servers"`
	ClientID         string            `mapstructure:"client_id"`
	Topics           KafkaTopicsConfig `mapstructure:"topics"`
}

type KafkaTopicsConfig struct {
	JobEvents string `mapstructure:"job_events"`
}

// MinioConfig MinIO configuration
type MinioConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	KeyPrefix       string `mapstructure:"key_prefix"`
}

// EtcdConfig etcd client configuration.
type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
}

// ServiceRegistryConfig registration configuration.
type ServiceRegistryConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	ServiceName  string        `mapstructure:"service_name"`
	ServiceID    string        `mapstructure:"service_id"`
	RegisterHost string        `mapstructure:"register_host"`
	TTL          time.Duration `mapstructure:"ttl"`
}

// GRPCServerConfig gRPC health server configuration.
type GRPCServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// PlaceholderAPIKey is shipped in sample configs and never accepted.
const PlaceholderAPIKey = "CHANGE_ME_TO_A_SECURE_RANDOM_KEY"

// DefaultUserAgent browser-like identification sent with downloads.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// DefaultRenditions the 240p/360p/480p ladder.
func DefaultRenditions() []RenditionConfig {
	return []RenditionConfig{
		{Height: 240, Bitrate: "200k", MaxRate: "250k", BufSize: "400k"},
		{Height: 360, Bitrate: "350k", MaxRate: "400k", BufSize: "700k"},
		{Height: 480, Bitrate: "500k", MaxRate: "600k", BufSize: "1000k"},
	}
}

// Load reads the YAML file at configPath, applies HLS_* environment overrides
// and defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("HLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a configuration with every default applied, without reading
// any file. Used by tests and the diagnostics command.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	config.normalize()
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.serve_hls", true)

	v.SetDefault("api.key", "")
	v.SetDefault("api.allowed_origins", []string{})

	v.SetDefault("storage.raw_dir", "./videos")
	v.SetDefault("storage.hls_dir", "./hls")
	v.SetDefault("storage.backend", "local")

	v.SetDefault("public.hls_base_url", "http://localhost:8080/hls")

	v.SetDefault("download.timeout", "300s")
	v.SetDefault("download.user_agent", DefaultUserAgent)
	v.SetDefault("download.insecure_skip_verify", true)

	v.SetDefault("transcode.ffmpeg.binary_path", "ffmpeg")
	v.SetDefault("transcode.ffmpeg.probe_binary_path", "ffprobe")
	v.SetDefault("transcode.ffmpeg.timeout", "10m")
	v.SetDefault("transcode.ffmpeg.video_codec", "libx264")
	v.SetDefault("transcode.ffmpeg.video_preset", "faster")
	v.SetDefault("transcode.ffmpeg.audio_codec", "aac")
	v.SetDefault("transcode.ffmpeg.audio_bitrate", "64k")
	v.SetDefault("transcode.ffmpeg.audio_sample_rate", 44100)
	v.SetDefault("transcode.hls.segment_duration", 6)
	v.SetDefault("transcode.hls.list_size", 0)
	v.SetDefault("transcode.hls.master_name", "master.m3u8")

	v.SetDefault("cleanup.delete_original", false)
	v.SetDefault("cleanup.max_age_days", 30)
	v.SetDefault("cleanup.interval", "24h")
	v.SetDefault("cleanup.lock_ttl", "30m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.verbose", true)
	v.SetDefault("log.output", "file")
	v.SetDefault("log.filename", "./logs/api.log")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	v.SetDefault("kafka.client_id", "hls-service")
	v.SetDefault("kafka.topics.job_events", "hls.job.events")

	v.SetDefault("minio.bucket_name", "hls")
	v.SetDefault("minio.key_prefix", "hls")

	v.SetDefault("etcd.endpoints", []string{"localhost:2379"})
	v.SetDefault("etcd.dial_timeout", "5s")
	v.SetDefault("service_registry.enabled", false)
	v.SetDefault("service_registry.service_name", "hls-service")

	v.SetDefault("grpc_server.enabled", false)
	v.SetDefault("grpc_server.host", "0.0.0.0")
	v.SetDefault("grpc_server.port", 9092)
}

// normalize fills defaults that depend on other fields
func (c *Config) normalize() {
	// accept both key spellings
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}

	if len(c.Transcode.Renditions) == 0 {
		c.Transcode.Renditions = DefaultRenditions()
	}
	if strings.TrimSpace(c.Transcode.FFmpeg.BinaryPath) == "" {
		c.Transcode.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Transcode.FFmpeg.VideoCodec == "" {
		c.Transcode.FFmpeg.VideoCodec = "libx264"
	}
	if c.Transcode.FFmpeg.VideoPreset == "" {
		c.Transcode.FFmpeg.VideoPreset = "faster"
	}
	if c.Transcode.FFmpeg.AudioCodec == "" {
		c.Transcode.FFmpeg.AudioCodec = "aac"
	}
	if c.Transcode.FFmpeg.Threads < 0 {
		c.Transcode.FFmpeg.Threads = 0
	}
	if c.Transcode.HLS.MasterName == "" {
		c.Transcode.HLS.MasterName = "master.m3u8"
	}
	if c.Download.UserAgent == "" {
		c.Download.UserAgent = DefaultUserAgent
	}
	if c.Download.Timeout <= 0 {
		c.Download.Timeout = 300 * time.Second
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = "local"
	}
	c.Public.HLSBaseURL = strings.TrimRight(c.Public.HLSBaseURL, "/")
	c.Log.Output = strings.ToLower(strings.TrimSpace(c.Log.Output))
	if c.Log.Output == "" {
		c.Log.Output = "file"
	}
	if c.Log.Filename == "" && c.Log.Output != "stdout" {
		c.Log.Output = "stdout"
	}
	if c.Cleanup.LockTTL <= 0 {
		c.Cleanup.LockTTL = 30 * time.Minute
	}
	if c.ServiceRegistry.TTL == 0 {
		c.ServiceRegistry.TTL = 30 * time.Second
	}
	if c.ServiceRegistry.ServiceName == "" {
		c.ServiceRegistry.ServiceName = "hls-service"
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "hls-service"
	}
	if c.Kafka.Topics.JobEvents == "" {
		c.Kafka.Topics.JobEvents = "hls.job.events"
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Storage.RawDir) == "" {
		errs = append(errs, errors.New("storage.raw_dir is required"))
	}
	if strings.TrimSpace(c.Storage.HLSDir) == "" {
		errs = append(errs, errors.New("storage.hls_dir is required"))
	}
	if c.Storage.Backend != "local" && c.Storage.Backend != "minio" {
		errs = append(errs, fmt.Errorf("storage.backend must be local or minio, got %q", c.Storage.Backend))
	}
	if c.Transcode.HLS.SegmentDuration <= 0 {
		errs = append(errs, errors.New("transcode.hls.segment_duration must be positive"))
	}
	if c.Transcode.HLS.ListSize < 0 {
		errs = append(errs, errors.New("transcode.hls.list_size must not be negative"))
	}
	seen := make(map[int]bool, len(c.Transcode.Renditions))
	for i, r := range c.Transcode.Renditions {
		if r.Height <= 0 {
			errs = append(errs, fmt.Errorf("transcode.renditions[%d].height must be positive", i))
		}
		if seen[r.Height] {
			errs = append(errs, fmt.Errorf("transcode.renditions[%d].height %d is duplicated", i, r.Height))
		}
		seen[r.Height] = true
		if r.Bitrate == "" || r.MaxRate == "" || r.BufSize == "" {
			errs = append(errs, fmt.Errorf("transcode.renditions[%d] requires bitrate, maxrate and bufsize", i))
		}
	}
	switch c.Log.Output {
	case "file", "stdout", "both":
	default:
		errs = append(errs, fmt.Errorf("log.output must be file, stdout or both, got %q", c.Log.Output))
	}
	if c.Storage.Backend == "minio" && c.Minio.Endpoint == "" {
		errs = append(errs, errors.New("minio.endpoint is required when storage.backend is minio"))
	}
	return errors.Join(errs...)
}

// GetRedisAddr returns the redis address
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ResolvePath picks the config file: CONFIG_PATH wins, otherwise CONFIG_ENV
// selects configs/config.<env>.yaml (dev when unset).
func ResolvePath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}

	switch env {
	case "prod", "production":
		return "configs/config.prod.yaml"
	case "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
