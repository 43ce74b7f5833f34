// config реализует конфигурацию social-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	DB       DBConfig      `yaml:"db"`
	Redis    RedisConfig   `yaml:"redis"`
	S3       S3Config      `yaml:"s3"`
	Auth     AuthConfig    `yaml:"auth"`
	Limits   LimitsConfig  `yaml:"limits"`
	Sweeper  SweeperConfig `yaml:"sweeper"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера (API + health/metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — настройки подключения к MongoDB.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
	// Transactions — писать обе проекции связей в транзакции (нужен replica set).
	Transactions bool `yaml:"transactions" env:"DB_TRANSACTIONS" env-default:"false"`
}

// RedisConfig — ключи идемпотентности. Пустой URL — локальный LRU в процессе.
type RedisConfig struct {
	URL            string        `yaml:"url"             env:"REDIS_URL"`
	Prefix         string        `yaml:"prefix"          env:"REDIS_PREFIX"    env-default:"social:idem:"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl" env:"IDEMPOTENCY_TTL" env-default:"10m"`
}

// S3Config — хранилище медиа постов. Пустой Endpoint — медиа выключены.
type S3Config struct {
	Endpoint            string        `yaml:"endpoint"              env:"S3_ENDPOINT"`
	RootUser            string        `yaml:"root_user"             env:"S3_ROOT_USER"`
	RootPassword        string        `yaml:"root_password"         env:"S3_ROOT_PASSWORD"`
	Bucket              string        `yaml:"bucket"                env:"S3_BUCKET"              env-default:"media"`
	PublicBaseURL       string        `yaml:"public_base_url"       env:"S3_PUBLIC_BASE_URL"`
	PresignTTL          time.Duration `yaml:"presign_ttl"           env:"S3_PRESIGN_TTL"         env-default:"10m"`
	MaxSizeBytes        int64         `yaml:"max_size_bytes"        env:"MEDIA_MAX_SIZE_BYTES"   env-default:"20971520"`
	AllowedContentTypes []string      `yaml:"allowed_content_types" env:"MEDIA_ALLOWED_CONTENT_TYPES" env-separator:"," env-default:"image/jpeg,image/png,image/gif,video/mp4"`
}

// Enabled сообщает, настроено ли хранилище медиа.
func (s S3Config) Enabled() bool {
	return s.Endpoint != ""
}

// AuthConfig — параметры проверки bearer-токенов.
type AuthConfig struct {
	JWTSecret string   `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	Issuer    string   `yaml:"issuer"     env:"ISSUER"     env-default:"auth-service"`
	Audience  []string `yaml:"audience"   env:"AUDIENCE"   env-default:"social-service"`
}

// LimitsConfig — лимиты выдачи и модерации.
type LimitsConfig struct {
	// Пагинация: limit=0 -> берём Default; верхняя граница — Max.
	Default    int `yaml:"default"      env:"DEFAULT_LIMIT" env-default:"25"`
	Max        int `yaml:"max"          env:"MAX_LIMIT"     env-default:"100"`
	MaxBanDays int `yaml:"max_ban_days" env:"MAX_BAN_DAYS"  env-default:"365"`
}

// SweeperConfig — периодическое снятие истёкших банов.
type SweeperConfig struct {
	Interval time.Duration `yaml:"interval" env:"SWEEPER_INTERVAL" env-default:"1m"`
}

// TimeoutConfig — сервисные таймауты (общий дедлайн обработки запроса).
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"5s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	switch {
	case path != "":
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}

		return validated(c)
	case os.Getenv("CONFIG_PATH") != "":
		c, err := tryRead(os.Getenv("CONFIG_PATH"))
		if err != nil {
			return nil, err
		}

		return validated(c)
	}

	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return validated(&cfg)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return validated(&cfg)
}

func validated(c *Config) (*Config, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Limits.Default <= 0 {
		return fmt.Errorf("limits.default must be > 0")
	}

	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}

	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}

	if c.Limits.MaxBanDays <= 0 {
		return fmt.Errorf("limits.max_ban_days must be > 0")
	}

	if c.Sweeper.Interval < time.Second {
		return fmt.Errorf("sweeper.interval must be at least 1s")
	}

	if c.Redis.IdempotencyTTL <= 0 {
		return fmt.Errorf("redis.idempotency_ttl must be > 0")
	}

	if c.S3.Enabled() {
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required when s3.endpoint is set")
		}

		if c.S3.MaxSizeBytes <= 0 {
			return fmt.Errorf("s3.max_size_bytes must be > 0")
		}
	}

	return nil
}
