package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env         string `yaml:"env"`
	ListenAddr  string `yaml:"listen_addr"`
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	// AutoExecuteWorkers > 0 starts the background dispatcher that runs
	// pending jobs without an explicit execute call.
	AutoExecuteWorkers int           `yaml:"auto_execute_workers"`
	PollInterval       time.Duration `yaml:"poll_interval"`
	// BrowserSlots bounds concurrent job executions in this process.
	BrowserSlots int `yaml:"browser_slots"`

	Browser    BrowserConfig    `yaml:"browser"`
	AI         AIConfig         `yaml:"ai"`
	Blob       BlobConfig       `yaml:"blob"`
	Escalation EscalationConfig `yaml:"escalation"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	NATSURL       string `yaml:"nats_url"`
	OTLPEndpoint  string `yaml:"otlp_endpoint"`

	RateLimitRPS   int `yaml:"rate_limit_rps"`
	RateLimitBurst int `yaml:"rate_limit_burst"`
	AssetCacheSize int `yaml:"asset_cache_size"`

	// DevAssets seed the in-memory store when no database is configured.
	DevAssets []DevAsset `yaml:"dev_assets"`
}

type DevAsset struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type BrowserConfig struct {
	ExecPath           string        `yaml:"exec_path"`
	Headless           bool          `yaml:"headless"`
	NavigationAttempts int           `yaml:"navigation_attempts"`
	NavigationBackoff  time.Duration `yaml:"navigation_backoff"`
	NavigationTimeout  time.Duration `yaml:"navigation_timeout"`
	SettleDelay        time.Duration `yaml:"settle_delay"`
}

type AIConfig struct {
	BaseURL         string        `yaml:"base_url"`
	APIKey          string        `yaml:"api_key"`
	Model           string        `yaml:"model"`
	Timeout         time.Duration `yaml:"timeout"`
	CostPer1KTokens float64       `yaml:"cost_per_1k_tokens"`
}

type BlobConfig struct {
	Type          string `yaml:"type"` // fs, s3 or gcs
	Dir           string `yaml:"dir"`
	PublicBaseURL string `yaml:"public_base_url"`
	S3Bucket      string `yaml:"s3_bucket"`
	S3Region      string `yaml:"s3_region"`
	S3Endpoint    string `yaml:"s3_endpoint"`
	GCSBucket     string `yaml:"gcs_bucket"`
	Prefix        string `yaml:"prefix"`
}

type EscalationConfig struct {
	Threshold int    `yaml:"threshold"`
	ActorID   string `yaml:"actor_id"`
}

func Defaults() Config {
	return Config{
		Env:          "development",
		ListenAddr:   ":8080",
		LogLevel:     "info",
		LogFormat:    "json",
		PollInterval: 500 * time.Millisecond,
		BrowserSlots: 2,
		Browser: BrowserConfig{
			Headless:           true,
			NavigationAttempts: 3,
			NavigationBackoff:  2 * time.Second,
			NavigationTimeout:  30 * time.Second,
			SettleDelay:        5 * time.Second,
		},
		AI: AIConfig{
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama3-70b-8192",
			Timeout: 60 * time.Second,
		},
		Blob: BlobConfig{
			Type: "fs",
			Dir:  "data/evidence",
		},
		Escalation:     EscalationConfig{Threshold: 70, ActorID: "system"},
		RateLimitRPS:   20,
		RateLimitBurst: 40,
		AssetCacheSize: 256,
	}
}

// Load builds the config from defaults, an optional YAML file named by
// IPWATCH_CONFIG, then environment variables. Env wins.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("IPWATCH_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getenv("APP_ENV", cfg.Env)
	cfg.ListenAddr = getenv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DatabaseURL = getenv("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("LOG_FORMAT", cfg.LogFormat)
	cfg.AutoExecuteWorkers = getenvInt("AUTO_EXECUTE_WORKERS", cfg.AutoExecuteWorkers)
	cfg.PollInterval = getenvDuration("POLL_INTERVAL", cfg.PollInterval)
	cfg.BrowserSlots = getenvInt("BROWSER_SLOTS", cfg.BrowserSlots)

	cfg.Browser.ExecPath = getenv("CHROME_PATH", cfg.Browser.ExecPath)
	cfg.Browser.Headless = getenvBool("BROWSER_HEADLESS", cfg.Browser.Headless)
	cfg.Browser.NavigationAttempts = getenvInt("NAVIGATION_ATTEMPTS", cfg.Browser.NavigationAttempts)
	cfg.Browser.NavigationBackoff = getenvDuration("NAVIGATION_BACKOFF", cfg.Browser.NavigationBackoff)
	cfg.Browser.NavigationTimeout = getenvDuration("NAVIGATION_TIMEOUT", cfg.Browser.NavigationTimeout)
	cfg.Browser.SettleDelay = getenvDuration("SETTLE_DELAY", cfg.Browser.SettleDelay)

	cfg.AI.BaseURL = getenv("LLM_BASE_URL", cfg.AI.BaseURL)
	cfg.AI.APIKey = getenv("LLM_API_KEY", cfg.AI.APIKey)
	cfg.AI.Model = getenv("LLM_MODEL", cfg.AI.Model)
	cfg.AI.Timeout = getenvDuration("AI_TIMEOUT", cfg.AI.Timeout)
	cfg.AI.CostPer1KTokens = getenvFloat("AI_COST_PER_1K_TOKENS", cfg.AI.CostPer1KTokens)

	cfg.Blob.Type = getenv("EVIDENCE_STORAGE_TYPE", cfg.Blob.Type)
	cfg.Blob.Dir = getenv("EVIDENCE_DIR", cfg.Blob.Dir)
	cfg.Blob.PublicBaseURL = getenv("EVIDENCE_PUBLIC_BASE_URL", cfg.Blob.PublicBaseURL)
	cfg.Blob.S3Bucket = getenv("EVIDENCE_S3_BUCKET", cfg.Blob.S3Bucket)
	cfg.Blob.S3Region = getenv("EVIDENCE_S3_REGION", getenv("AWS_REGION", cfg.Blob.S3Region))
	cfg.Blob.S3Endpoint = getenv("EVIDENCE_S3_ENDPOINT", cfg.Blob.S3Endpoint)
	cfg.Blob.GCSBucket = getenv("EVIDENCE_GCS_BUCKET", cfg.Blob.GCSBucket)
	cfg.Blob.Prefix = getenv("EVIDENCE_PREFIX", cfg.Blob.Prefix)

	cfg.Escalation.Threshold = getenvInt("ESCALATION_THRESHOLD", cfg.Escalation.Threshold)
	cfg.Escalation.ActorID = getenv("ESCALATION_ACTOR_ID", cfg.Escalation.ActorID)

	cfg.RedisAddr = getenv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getenv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.NATSURL = getenv("NATS_URL", cfg.NATSURL)
	cfg.OTLPEndpoint = getenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.RateLimitRPS = getenvInt("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.AssetCacheSize = getenvInt("ASSET_CACHE_SIZE", cfg.AssetCacheSize)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
