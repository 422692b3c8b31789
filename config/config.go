package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	DatabaseURL string
	RabbitMQURL string
	RedisUrl    string
	LogLevel    string
	ServiceName string

	SeedDir  string
	InboxDir string

	Campaign CampaignConfig

	// MockMode runs the worker without postgres/redis/rabbitmq, for local
	// smoke runs and the mock binary.
	MockMode bool
}

// CampaignConfig is the per-campaign tuning, overridable from a YAML file.
type CampaignConfig struct {
	CorpusBackend string        `yaml:"corpus_backend"` // "linked" | "btree"
	Scheduler     string        `yaml:"scheduler"`      // "queue" | "power"
	Minimizer     bool          `yaml:"minimizer"`
	RandomSeed    int64         `yaml:"random_seed"`
	StatsInterval time.Duration `yaml:"stats_interval"`
	MaxInputLen   int           `yaml:"max_input_len"`
}

func LoadConfig() *AppConfig {
	// use a temporary logger for now
	logger := zap.NewExample().Named("config")

	godotenv.Load()

	config := &AppConfig{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		RedisUrl:    os.Getenv("REDIS_URL"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		ServiceName: os.Getenv("SERVICE_NAME"),
		SeedDir:     os.Getenv("SEED_DIR"),
		InboxDir:    os.Getenv("SEED_INBOX_DIR"),
		MockMode:    parseBool(os.Getenv("FUZZBANK_MOCK"), false),
		Campaign: CampaignConfig{
			CorpusBackend: envOr("CORPUS_BACKEND", "linked"),
			Scheduler:     envOr("SCHEDULER", "power"),
			Minimizer:     parseBool(os.Getenv("MINIMIZER"), true),
			RandomSeed:    parseInt64(os.Getenv("RANDOM_SEED"), 0),
			StatsInterval: parseDuration(os.Getenv("STATS_INTERVAL"), 30*time.Second),
			MaxInputLen:   parseInt(os.Getenv("MAX_INPUT_LEN"), 1<<20),
		},
	}

	// a campaign file overrides the env knobs
	if path := os.Getenv("CAMPAIGN_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("failed to read campaign config", zap.String("path", path), zap.Error(err))
		}
		if err := yaml.Unmarshal(data, &config.Campaign); err != nil {
			logger.Fatal("failed to parse campaign config", zap.String("path", path), zap.Error(err))
		}
	}

	if config.LogLevel == "" {
		config.LogLevel = "info" // Set default log level
	}
	if config.ServiceName == "" {
		config.ServiceName = "fuzzbank" // Default service name
	}
	if config.Campaign.RandomSeed == 0 {
		config.Campaign.RandomSeed = time.Now().UnixNano()
	}

	if !config.MockMode {
		if config.DatabaseURL == "" {
			logger.Fatal("DATABASE_URL environment variable is required")
		}
		if config.RabbitMQURL == "" {
			logger.Fatal("RABBITMQ_URL environment variable is required")
		}
		if config.RedisUrl == "" {
			logger.Fatal("REDIS_URL environment variable is required")
		}
	}

	return config
}

func envOr(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(val string, defaultVal time.Duration) time.Duration {
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseInt(val string, defaultVal int) int {
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func parseInt64(val string, defaultVal int64) int64 {
	if val == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func parseBool(val string, defaultVal bool) bool {
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
