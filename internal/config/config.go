package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	// NodeID seeds the snowflake generator. It must differ between processes
	// sharing a database.
	NodeID int64

	// CronAPIKey guards the externally triggered job endpoints. Empty disables them.
	CronAPIKey string

	OTLPEndpoint string
	OTLPProtocol string
	OtelEnabled  bool
	LogLevel     string
	LogFormat    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	AutoMigrate       bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CronRate and CronBurst bound calls to the cron endpoints per client.
	// They take effect only with Redis.
	CronRate  float64
	CronBurst int

	TelegramBotToken string
	TelegramChatID   int64

	Scheduler SchedulerConfig
}

type SchedulerConfig struct {
	Interval    time.Duration
	BatchSize   int
	JobTimeout  time.Duration
	EnabledJobs []string
}

// Load loads configuration from environment variables, an optional .env file
// and an optional YAML file named by NASIYA_CONFIG_FILE.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if file := strings.TrimSpace(v.GetString("NASIYA_CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, err
			}
		}
	}

	environment := strings.TrimSpace(v.GetString("ENVIRONMENT"))

	cfg := Config{
		AppName:     v.GetString("APP_SERVICE"),
		AppVersion:  v.GetString("APP_VERSION"),
		Environment: environment,
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		NodeID:      v.GetInt64("SNOWFLAKE_NODE_ID"),
		CronAPIKey:  strings.TrimSpace(v.GetString("CRON_API_KEY")),

		OTLPEndpoint: strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPProtocol: strings.ToLower(strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_PROTOCOL"))),
		OtelEnabled:  v.GetBool("OTEL_ENABLED"),
		LogLevel:     strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogFormat:    strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),

		DBType:            v.GetString("DATABASE_TYPE"),
		DBHost:            v.GetString("DATABASE_HOST"),
		DBPort:            v.GetString("DATABASE_PORT"),
		DBName:            v.GetString("DATABASE_NAME"),
		DBUser:            v.GetString("DATABASE_USER"),
		DBPassword:        v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:         v.GetString("DATABASE_SSLMODE"),
		DBMaxIdleConn:     v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:     v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime: v.GetInt("DATABASE_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetInt("DATABASE_CONN_MAX_IDLE_TIME"),
		AutoMigrate:       v.GetBool("DATABASE_AUTO_MIGRATE"),

		RedisAddr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		CronRate:  v.GetFloat64("CRON_RATE_PER_SECOND"),
		CronBurst: v.GetInt("CRON_BURST"),

		TelegramBotToken: strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		TelegramChatID:   v.GetInt64("TELEGRAM_CHAT_ID"),

		Scheduler: SchedulerConfig{
			Interval:    v.GetDuration("SCHEDULER_INTERVAL"),
			BatchSize:   v.GetInt("SCHEDULER_BATCH_SIZE"),
			JobTimeout:  v.GetDuration("SCHEDULER_JOB_TIMEOUT"),
			EnabledJobs: parseList(v.GetString("SCHEDULER_ENABLED_JOBS")),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_SERVICE", "nasiya")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SNOWFLAKE_NODE_ID", 1)

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DATABASE_TYPE", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "nasiya")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_IDLE_CONN", 5)
	v.SetDefault("DATABASE_MAX_OPEN_CONN", 20)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 1800)
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", 300)
	v.SetDefault("DATABASE_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CRON_RATE_PER_SECOND", 0.2)
	v.SetDefault("CRON_BURST", 5)

	v.SetDefault("SCHEDULER_INTERVAL", time.Hour)
	v.SetDefault("SCHEDULER_BATCH_SIZE", 500)
	v.SetDefault("SCHEDULER_JOB_TIMEOUT", 2*time.Minute)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
