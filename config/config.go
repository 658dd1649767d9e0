package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	RabbitMQ RabbitMQConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Port        string
	Env         string
	Timezone    string
	LogLevel    string
	CORSOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	Enabled     bool
	PoolSize    int
	DialTimeout time.Duration
}

type JWTConfig struct {
	Secret string
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
	Enabled  bool
}

// BookingConfig holds the business rules of the scheduling core.
type BookingConfig struct {
	MinSlotPrice       int64
	MinSlotGap         time.Duration
	MinWalletCharge    int64
	DisplayCalendar    string
	LockTTL            time.Duration
	LockWait           time.Duration
	RateLimitPerMinute int
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// LoadConfig reads .env from the working directory, if present, and the environment.
func LoadConfig() (*Config, error) {
	return Load(".env")
}

// Load reads configuration from path and the environment. A missing file is
// not an error; environment variables always take precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			Timezone:    v.GetString("APP_TIMEZONE"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("APP_CORS_ORIGINS")),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:        v.GetString("REDIS_HOST"),
			Port:        v.GetString("REDIS_PORT"),
			Password:    v.GetString("REDIS_PASSWORD"),
			DB:          v.GetInt("REDIS_DB"),
			Enabled:     v.GetBool("REDIS_ENABLED"),
			PoolSize:    v.GetInt("REDIS_POOL_SIZE"),
			DialTimeout: v.GetDuration("REDIS_DIAL_TIMEOUT"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Enabled:  v.GetBool("RABBITMQ_ENABLED"),
		},
		Booking: BookingConfig{
			MinSlotPrice:       v.GetInt64("BOOKING_MIN_SLOT_PRICE"),
			MinSlotGap:         v.GetDuration("BOOKING_MIN_SLOT_GAP"),
			MinWalletCharge:    v.GetInt64("BOOKING_MIN_WALLET_CHARGE"),
			DisplayCalendar:    v.GetString("BOOKING_DISPLAY_CALENDAR"),
			LockTTL:            v.GetDuration("BOOKING_LOCK_TTL"),
			LockWait:           v.GetDuration("BOOKING_LOCK_WAIT"),
			RateLimitPerMinute: v.GetInt("BOOKING_RATE_LIMIT_PER_MINUTE"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "Asia/Tehran")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_CORS_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")

	v.SetDefault("RABBITMQ_EXCHANGE", "appointments")
	v.SetDefault("RABBITMQ_ENABLED", false)

	v.SetDefault("BOOKING_MIN_SLOT_PRICE", 30000)
	v.SetDefault("BOOKING_MIN_SLOT_GAP", "10m")
	v.SetDefault("BOOKING_MIN_WALLET_CHARGE", 5000)
	v.SetDefault("BOOKING_DISPLAY_CALENDAR", "persian")
	v.SetDefault("BOOKING_LOCK_TTL", "5s")
	v.SetDefault("BOOKING_LOCK_WAIT", "3s")
	v.SetDefault("BOOKING_RATE_LIMIT_PER_MINUTE", 60)
}

// splitList parses a comma separated env value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
