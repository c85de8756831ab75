package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Admin     AdminConfig
	Checkout  CheckoutConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AdminConfig struct {
	JWTSecret       string
	TokenExpiry     int // in minutes
	DefaultPassword string
}

type CheckoutConfig struct {
	WhatsAppNumber string
	SubmitDelay    time.Duration
	Cities         []string
}

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ADMIN_TOKEN_EXPIRY", 60)
	viper.SetDefault("ADMIN_DEFAULT_PASSWORD", "admin123")
	viper.SetDefault("CHECKOUT_SUBMIT_DELAY_MS", 1200)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Admin: AdminConfig{
			JWTSecret:       viper.GetString("ADMIN_JWT_SECRET"),
			TokenExpiry:     viper.GetInt("ADMIN_TOKEN_EXPIRY"),
			DefaultPassword: viper.GetString("ADMIN_DEFAULT_PASSWORD"),
		},
		Checkout: CheckoutConfig{
			WhatsAppNumber: viper.GetString("CHECKOUT_WHATSAPP_NUMBER"),
			SubmitDelay:    time.Duration(viper.GetInt("CHECKOUT_SUBMIT_DELAY_MS")) * time.Millisecond,
			Cities:         viper.GetStringSlice("CHECKOUT_CITIES"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:            time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		},
	}

	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// validate rejects configurations that would silently weaken the admin
// gate. Development is exempt so a bare checkout still runs locally.
func (c *Config) validate() error {
	if c.Server.Env != "development" && c.Admin.JWTSecret == "" {
		return errors.New("ADMIN_JWT_SECRET must be set outside development")
	}
	return nil
}
