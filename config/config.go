package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all app configuration
type Config struct {
	// Environment: local, dev or prod
	Env string

	// Server
	HTTPPort string

	// Hosted sales database source
	NotionBaseURL    string
	NotionAPIKey     string
	NotionAPIVersion string
	SalesDatabaseID  string
	SourceTimeout    time.Duration

	// Discord webhook for summary notifications; empty disables notifications
	DiscordWebhookURL string

	// Refresh cycle
	PollInterval       time.Duration
	SnapshotBufferSize int

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ClickHouse
	ClickhouseAddr     string
	ClickhouseUsername string
	ClickhousePassword string
	ClickhouseTimeout  int

	// Kafka; empty broker list means snapshots flow over a direct channel
	KafkaBrokers       []string
	KafkaTopic         string
	KafkaConsumerGroup string

	// App settings
	DemoMode bool
	Debug    bool
}

// LoadConfig loads configuration from environment variables, with optional .env file
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "local"),

		// Server
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		// Source
		NotionBaseURL:    getEnv("NOTION_BASE_URL", "https://api.notion.com"),
		NotionAPIKey:     getEnv("NOTION_API_KEY", ""),
		NotionAPIVersion: getEnv("NOTION_API_VERSION", "2022-06-28"),
		SalesDatabaseID:  getEnv("SALES_DB_ID", ""),
		SourceTimeout:    time.Duration(getEnvAsInt("SOURCE_TIMEOUT_SECONDS", 15)) * time.Second,

		// Notifications
		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),

		// Refresh cycle
		PollInterval:       time.Duration(getEnvAsInt("POLL_INTERVAL_SECONDS", 30)) * time.Second,
		SnapshotBufferSize: getEnvAsInt("SNAPSHOT_BUFFER_SIZE", 16),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// ClickHouse
		ClickhouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickhouseUsername: getEnv("CLICKHOUSE_USERNAME", ""),
		ClickhousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickhouseTimeout:  getEnvAsInt("CLICKHOUSE_TIMEOUT", 10),

		// Kafka
		KafkaBrokers:       getEnvAsSlice("KAFKA_BROKERS", nil, ","),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "sales-snapshots"),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "salestat-group"),

		// App settings
		DemoMode: getEnvAsBool("DEMO_MODE", false),
		Debug:    getEnvAsBool("DEBUG", false),
	}

	return cfg
}

// Helper functions for parsing environment variables
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string, sep string) []string {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal
	}
	return strings.Split(valStr, sep)
}
