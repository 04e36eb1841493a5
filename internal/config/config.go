// Package config предоставялет структуры и функции для парсинга и загрузки конфига.
//
// Конфиг читается из YAML-файла, путь к которому задаётся переменной окружения CONFIG_PATH.
// Любое поле может быть переопределено переменной окружения (тег env). Если рядом лежит
// файл .env, он подгружается до чтения конфига.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Окружения запуска.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Способы доставки кода подтверждения.
const (
	DeliverySMTP  = "smtp"
	DeliveryQueue = "queue"
	DeliveryLog   = "log"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	JWTToken                `yaml:"jwttoken"`
	Confirmation            `yaml:"confirmation"`
	Mail                    `yaml:"mail"`
	SMTP                    `yaml:"smtp"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	RedisAddress     string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	RedisPassword    string        `yaml:"password" env:"REDIS_PASSWORD"`
	RedisUser        string        `yaml:"user" env:"REDIS_USER"`
	RedisDB          int           `yaml:"db"`
	RedisMaxRetries  int           `yaml:"max_retries"`
	RedisDialTimeout time.Duration `yaml:"dial_timeout"`
	RedisTimeout     time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Confirmation настройки кодов подтверждения регистрации.
type Confirmation struct {
	CodeTTL time.Duration `yaml:"code_ttl" env-default:"24h"`
}

// Mail выбирает способ доставки писем.
type Mail struct {
	Delivery string `yaml:"delivery" env:"MAIL_DELIVERY" env-default:"log"`
	MailFrom string `yaml:"from" env:"MAIL_FROM" env-default:"info@yamdb.local"`
}

// SMTP параметры почтового сервера.
type SMTP struct {
	SMTPHost     string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort     string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser     string `yaml:"user" env:"SMTP_USER"`
	SMTPPass     string `yaml:"password" env:"SMTP_PASSWORD"`
	SMTPInsecure bool   `yaml:"insecure" env:"SMTP_INSECURE"`
}

// RabbitMQ параметры подключения к брокеру.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// RateLimit ограничение частоты запросов к /auth.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"5"`
}

// Load читает конфиг по указанному пути.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH.
func MustLoad() *Config {
	// .env не обязателен
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Delivery {
	case DeliverySMTP:
		if c.SMTPHost == "" {
			return errors.New("smtp.host is required for smtp delivery")
		}
	case DeliveryQueue:
		if c.RabbitMQURL == "" {
			return errors.New("rabbitmq.url is required for queue delivery")
		}
	case DeliveryLog:
	default:
		return fmt.Errorf("unknown mail delivery %q", c.Delivery)
	}
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"Mail:\n"+
			"  Delivery: %s\n"+
			"  SMTPHost: %s\n"+
			"  SMTPPassword: %s\n",
		c.Env,
		c.MigrationsPath,
		c.RedisAddress,
		c.RedisUser,
		c.RedisDB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
		c.Delivery,
		c.SMTPHost,
		mask(c.SMTPPass),
	)
}
