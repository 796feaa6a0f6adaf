// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// EnvLocal локальный запуск, текстовые логи.
	EnvLocal = "local"
	// EnvDev тестовый стенд.
	EnvDev = "dev"
	// EnvProd боевое окружение, сообщения 5xx скрываются от клиента.
	EnvProd = "prod"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Mongo           `yaml:"mongo"`
	RedisConnection `yaml:"redis_connection"`
	ImageStore      `yaml:"image_store"`
	JWTToken        `yaml:"jwttoken"`
	RabbitMQ        `yaml:"rabbitmq"`
	RateLimit       `yaml:"rate_limit"`
	Pagination      `yaml:"pagination"`
	Admin           `yaml:"admin"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Mongo структура для подключения к MongoDB
type Mongo struct {
	URI            string        `yaml:"uri" env:"MONGO_URI" env-required:"true"`
	Database       string        `yaml:"database" env:"MONGO_DATABASE" env-default:"skyline"`
	MigrationsPath string        `yaml:"migrations_path" env-default:"./migrations"`
	OpTimeout      time.Duration `yaml:"op_timeout" env-default:"5s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"2s"`
	ReportTTL    time.Duration `yaml:"report_ttl" env-default:"5m"`
}

// ImageStore структура для S3-совместимого хранилища картинок
type ImageStore struct {
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region        string        `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET" env-default:"vacations"`
	AccessKey     string        `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey     string        `yaml:"secret_key" env:"S3_SECRET_KEY"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
	MaxSize       int64         `yaml:"max_size" env-default:"5242880"`
	OpTimeout     time.Duration `yaml:"op_timeout" env-default:"10s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"3h"`
}

// RabbitMQ настройки публикации доменных событий. Пустой URL отключает публикацию.
// ReportQueue и Workers использует воркер, прогревающий кэш отчёта.
type RabbitMQ struct {
	URL         string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange    string        `yaml:"exchange" env-default:"vacations"`
	Retries     int           `yaml:"retries" env-default:"5"`
	RetryDelay  time.Duration `yaml:"retry_delay" env-default:"2s"`
	ReportQueue string        `yaml:"report_queue" env-default:"vacations.report"`
	Workers     int           `yaml:"workers" env-default:"4"`
}

// RateLimit ограничение частоты запросов на /register и /login.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"5"`
}

// Pagination значения по умолчанию для списка отпусков.
type Pagination struct {
	DefaultPageSize int `yaml:"default_page_size" env-default:"9"`
	MaxPageSize     int `yaml:"max_page_size" env-default:"100"`
}

// Admin учётная запись администратора, создаётся при старте, если её нет.
type Admin struct {
	Email     string `yaml:"email" env:"ADMIN_EMAIL"`
	Password  string `yaml:"password" env:"ADMIN_PASSWORD"`
	FirstName string `yaml:"first_name" env-default:"Admin"`
	LastName  string `yaml:"last_name" env-default:"Skyline"`
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH
func MustLoad() *Config {
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

// Load читает конфиг из файла, переменные окружения перекрывают значения из файла.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Mongo:\n"+
			"  Database: %s\n"+
			"  OpTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"ImageStore:\n"+
			"  Endpoint: %s\n"+
			"  Bucket: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n",
		c.Env,
		c.Mongo.Database,
		c.Mongo.OpTimeout,
		c.AddressRedis,
		c.DB,
		c.Endpoint,
		c.Bucket,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
	)
}
