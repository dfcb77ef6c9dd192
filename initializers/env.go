package initializers

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/bookbuy-api/utils"
	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type LogConfig struct {
	Level string
	Dev   bool
}

// Config holds runtime settings read from the environment.
type Config struct {
	Host    string
	Port    string
	GinMode string

	DBDriver string
	MongoURI string
	MongoDB  string
	RedisURL string

	JWTSecret          string
	JWTExpiry          time.Duration
	ActivationTokenTTL time.Duration

	SMTP       utils.SMTPConfig
	MailAPIURL string
	MailAPIKey string

	S3 utils.S3Config

	CORSOrigins []string
	Log         LogConfig
}

// LoadEnv loads a .env file into the environment when one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using the process environment.")
	}
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Host = "0.0.0.0"
	c.Port = "8000"
	c.DBDriver = DriverMongo
	c.MongoURI = "mongodb://localhost:27017"
	c.MongoDB = "bookbuy"
	c.RedisURL = "redis://localhost:6379/0"
	c.JWTExpiry = 30 * time.Minute
	c.ActivationTokenTTL = 24 * time.Hour
	c.SMTP.Port = 587
	c.S3.Region = "us-east-1"
	c.CORSOrigins = []string{"http://localhost:3000"}
	c.Log.Level = "info"
}

// LoadConfig applies defaults, overlays the environment and validates.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.parseEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseEnv() error {
	setString(&c.Host, "HOST")
	setString(&c.Port, "PORT")
	setString(&c.GinMode, "GIN_MODE")
	setString(&c.DBDriver, "DB_DRIVER")
	setString(&c.MongoURI, "MONGO_URI")
	setString(&c.MongoDB, "MONGO_DB")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.Username, "SMTP_USERNAME")
	setString(&c.SMTP.Password, "SMTP_PASSWORD")
	setString(&c.SMTP.From, "MAIL_FROM")
	setString(&c.MailAPIURL, "MAIL_API_URL")
	setString(&c.MailAPIKey, "MAIL_API_KEY")
	setString(&c.S3.Bucket, "S3_BUCKET")
	setString(&c.S3.Region, "S3_REGION")
	setString(&c.S3.Endpoint, "S3_ENDPOINT")
	setString(&c.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&c.S3.SecretKey, "S3_SECRET_KEY")
	setString(&c.Log.Level, "LOG_LEVEL")
	c.Log.Dev = c.Log.Dev || os.Getenv("LOG_DEV") == "1"

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = splitList(origins)
	}

	var errs []error
	if err := setInt(&c.SMTP.Port, "SMTP_PORT"); err != nil {
		errs = append(errs, err)
	}
	if err := setDuration(&c.JWTExpiry, "JWT_EXPIRY_MINUTES", time.Minute); err != nil {
		errs = append(errs, err)
	}
	if err := setDuration(&c.ActivationTokenTTL, "ACTIVATION_TOKEN_TTL_HOURS", time.Hour); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_MINUTES must be positive"))
	}
	if c.ActivationTokenTTL <= 0 {
		errs = append(errs, errors.New("ACTIVATION_TOKEN_TTL_HOURS must be positive"))
	}
	if c.DBDriver != DriverMongo && c.DBDriver != DriverMemory {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.DBDriver))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string, unit time.Duration) error {
	n := int(*dst / unit)
	if err := setInt(&n, key); err != nil {
		return err
	}
	*dst = time.Duration(n) * unit
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
