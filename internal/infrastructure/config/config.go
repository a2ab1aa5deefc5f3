package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	Database Database

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigin string

	// Events; publishing is disabled when RabbitMQURI is empty
	RabbitMQURI      string
	RabbitMQExchange string
}

type Database struct {
	Driver string // "sqlite" or "postgres"
	DSN    string // file path for sqlite, connection URL for postgres
}

type Seed struct {
	Database Database
	Dir      string
	Workers  int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:    mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:  mustGetDuration("SHUTDOWN_TIMEOUT"),
		Database:         loadDatabase(),
		JWTSecret:        mustGetenv("JWT_SECRET"),
		JWTTTL:           getDurationDefault("JWT_TTL", 24*time.Hour),
		CORSOrigin:       getenvDefault("CORS_ORIGIN", "*"),
		RabbitMQURI:      os.Getenv("RABBITMQ_URI"),
		RabbitMQExchange: getenvDefault("RABBITMQ_EXCHANGE", "quiz.events"),
	}
}

// LoadSeed reads only what the seed command needs.
func LoadSeed() *Seed {
	_ = godotenv.Load()
	return &Seed{
		Database: loadDatabase(),
		Dir:      getenvDefault("SEED_DIR", "seed"),
		Workers:  getIntDefault("SEED_WORKERS", 4),
	}
}

func loadDatabase() Database {
	return Database{
		Driver: getenvDefault("DB_DRIVER", "sqlite"),
		DSN:    getenvDefault("DB_DSN", "quiz.db"),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
