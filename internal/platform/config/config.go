package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	StoreBackend   string
	StoreNamespace string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins     []string
	AuthRateLimitPerMinute int
	LogLevel               string
	LogFile                string
	HashPasswords          bool
	SeedDemoData           bool
	AdminEmail             string
	AdminPassword          string
	AdminName              string
}

var AppConfig *Config

// Load reads .env, the environment and the optional CONFIG_FILE into AppConfig.
func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := New(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// New resolves a Config from defaults, configFile (when non-empty) and the
// environment, in increasing order of precedence.
func New(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		APIPort:                v.GetString("API_PORT"),
		JWTKey:                 []byte(v.GetString("JWT_SECRET")),
		JWTExp:                 time.Duration(v.GetInt("JWT_EXPIRATION_HOURS")) * time.Hour,
		StoreBackend:           strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		StoreNamespace:         v.GetString("STORE_NAMESPACE"),
		DBHost:                 v.GetString("DB_HOST"),
		DBPort:                 v.GetString("DB_PORT"),
		DBUser:                 v.GetString("DB_USER"),
		DBPassword:             v.GetString("DB_PASSWORD"),
		DBName:                 v.GetString("DB_NAME"),
		DBSslMode:              v.GetString("DB_SSLMODE"),
		SQLitePath:             v.GetString("SQLITE_PATH"),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                v.GetInt("REDIS_DB"),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AuthRateLimitPerMinute: v.GetInt("AUTH_RATE_LIMIT_PER_MINUTE"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		LogFile:                v.GetString("LOG_FILE"),
		HashPasswords:          v.GetBool("HASH_PASSWORDS"),
		SeedDemoData:           v.GetBool("SEED_DEMO_DATA"),
		AdminEmail:             v.GetString("ADMIN_EMAIL"),
		AdminPassword:          v.GetString("ADMIN_PASSWORD"),
		AdminName:              v.GetString("ADMIN_NAME"),
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("JWT_SECRET", "defaultsecret")
	v.SetDefault("JWT_EXPIRATION_HOURS", 72)
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("STORE_NAMESPACE", "logicode")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "logicode")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "logicode.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("AUTH_RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("HASH_PASSWORDS", false)
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_NAME", "Administrador")
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.StoreNamespace == "" {
		return fmt.Errorf("config: STORE_NAMESPACE must not be empty")
	}
	if c.JWTExp <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_HOURS must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
