package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type Database struct {
	Host     string `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password string `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name     string `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode  string `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`

	MaxOpenConns    int           `yaml:"PG_MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"PG_MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"PG_CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"CACHE_DEFAULT_TTL" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
}

// RateConfig bounds how often a single seller may run product intake.
type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"INTAKE_MAX_ATTEMPTS" env-default:"10"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"INTAKE_WINDOW_SIZE" env-default:"1m"`
}

// Identity configures verification of tokens minted by the hosted identity
// provider. The signing key is shared with the provider.
type Identity struct {
	SigningKey string        `yaml:"IDENTITY_SIGNING_KEY" env:"IDENTITY_SIGNING_KEY" env-required:"true"`
	Issuer     string        `yaml:"IDENTITY_ISSUER" env:"IDENTITY_ISSUER" env-default:"quickcart-identity"`
	TokenTTL   time.Duration `yaml:"IDENTITY_TOKEN_TTL" env:"IDENTITY_TOKEN_TTL" env-default:"24h"`
}

type Cloudinary struct {
	CloudName string        `yaml:"CLOUDINARY_CLOUD_NAME" env:"CLOUDINARY_CLOUD_NAME" env-required:"true"`
	APIKey    string        `yaml:"CLOUDINARY_API_KEY" env:"CLOUDINARY_API_KEY" env-required:"true"`
	APISecret string        `yaml:"CLOUDINARY_API_SECRET" env:"CLOUDINARY_API_SECRET" env-required:"true"`
	UploadURL string        `yaml:"CLOUDINARY_UPLOAD_URL" env:"CLOUDINARY_UPLOAD_URL" env-default:"https://api.cloudinary.com/v1_1"`
	Timeout   time.Duration `yaml:"CLOUDINARY_TIMEOUT" env:"CLOUDINARY_TIMEOUT" env-default:"30s"`
}

type Stripe struct {
	APIKey        string `yaml:"STRIPE_API_KEY" env:"STRIPE_API_KEY" env-default:""`
	WebhookSecret string `yaml:"STRIPE_WEBHOOK_SECRET" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
	Currency      string `yaml:"STRIPE_CURRENCY" env:"STRIPE_CURRENCY" env-default:"inr"`
}

type SendGrid struct {
	APIKey    string `yaml:"SENDGRID_API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"SENDGRID_FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"orders@quickcart.dev"`
	FromName  string `yaml:"SENDGRID_FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"quickcart"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"OTLP_ENDPOINT" env:"OTLP_ENDPOINT" env-default:""`
}

type Config struct {
	Env            string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer     `yaml:"http_server"`
	Database       Database      `yaml:"database"`
	RedisConnect   RedisConnect  `yaml:"redis"`
	Cache          CacheConfig   `yaml:"cache"`
	RateConfig     RateConfig    `yaml:"rateConfig"`
	Identity       Identity      `yaml:"identity"`
	Cloudinary     Cloudinary    `yaml:"cloudinary"`
	Stripe         Stripe        `yaml:"stripe"`
	SendGrid       SendGrid      `yaml:"sendgrid"`
	Telemetry      Telemetry     `yaml:"telemetry"`
	CatalogRefresh time.Duration `yaml:"catalog_refresh" env:"CATALOG_REFRESH" env-default:"1m"`
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			log.Fatal("Config path is not set")
		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}
