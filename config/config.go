package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

const OrdersTopic = "orders"

type Settings struct {
	Port              string
	PublicBaseURL     string
	CORSOrigins       []string
	ReceiptFont       string
	AdminPassword     string
	AdminPasswordHash string
	TableMax          int
	ImageWidth        int
	ImageMinWidth     int
	ImageMaxWidth     int
	PlaceholderImage  string
	Categories        []string
	SessionTTL        time.Duration
	KafkaEnabled      bool
}

// LoadEnv reads a .env file when one is present. A missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
}

func Load() Settings {
	baseURL := strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8081"), "/")
	return Settings{
		Port:              getEnv("PORT", "8081"),
		PublicBaseURL:     baseURL,
		CORSOrigins:       getEnvList("CORS_ORIGINS", []string{baseURL}),
		ReceiptFont:       os.Getenv("RECEIPT_FONT"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		TableMax:          getEnvInt("TABLE_MAX", 20),
		ImageWidth:        getEnvInt("IMAGE_WIDTH", 600),
		ImageMinWidth:     getEnvInt("IMAGE_MIN_WIDTH", 200),
		ImageMaxWidth:     getEnvInt("IMAGE_MAX_WIDTH", 1000),
		PlaceholderImage:  getEnv("PLACEHOLDER_IMAGE", "https://via.placeholder.com/400x300?text=Delicious"),
		Categories:        getEnvList("MENU_CATEGORIES", []string{"主菜", "饮品", "主食", "小吃"}),
		SessionTTL:        time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour,
		KafkaEnabled:      os.Getenv("KAFKA_BROKER") != "",
	}
}

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{os.Getenv("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: invalid int for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
