package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Srv      *Serviceconfig
	App      *Appconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Serviceconfig struct {
	OrderServicePort string
}

type Appconfig struct {
	PublicJwtSecret string

	// Dashboard alert thresholds
	PendingBacklogLimit int
	MinSuccessRate      float64
	WindowDays          int
}

type Loggerconfig struct {
	Level string
}

func New() (*Config, error) {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			fmt.Printf("using default for %v\n", key)
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("using default for %v\n", key)
			return def
		}
		return val
	}

	getEnvFloat := func(key string, def float64) float64 {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			fmt.Printf("using default for %v\n", key)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "freightflow_user"),
			Password: getEnv("DB_PASSWORD", "freightflow_pass"),
			Database: getEnv("DB_NAME", "freightflow_db"),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Srv: &Serviceconfig{
			OrderServicePort: getEnv("ORDER_SERVICE_PORT", "3000"),
		},
		App: &Appconfig{
			PublicJwtSecret:     getEnv("JWT_SECRET", "super-secret-jwt-key"),
			PendingBacklogLimit: getEnvInt("ALERT_PENDING_BACKLOG_LIMIT", 10),
			MinSuccessRate:      getEnvFloat("ALERT_MIN_SUCCESS_RATE", 50),
			WindowDays:          getEnvInt("DASHBOARD_WINDOW_DAYS", 30),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf, nil
}
