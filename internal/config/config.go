package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerLogFilePath    string
	CLILogFilePath       string
	ServerPort           string
	GRPCPort             string
	DBPath               string
	JWTSecret            string
	JWTExpirationMinutes int
	GRPCAddress          string
	GRPCTimeout          time.Duration
	ShutdownTimeout      time.Duration
}

var AppConfig = &Config{}

// InitConfig загружает .env (если он есть) и читает переменные окружения.
// Для отсутствующих значений подставляются значения по умолчанию
func InitConfig(configPath string) error {
	cfg := &Config{}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := godotenv.Load(configPath); err != nil {
				return fmt.Errorf("error loading %s: %w", configPath, err)
			}
		}
	}

	cfg.ServerLogFilePath = os.Getenv("SERVER_LOG_FILE_PATH")
	cfg.CLILogFilePath = os.Getenv("CLI_LOG_FILE_PATH")
	cfg.GRPCAddress = os.Getenv("CALCULATOR_GRPC_ADDR")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.DBPath = getEnv("DB_PATH", "data/calculator.db")

	httpPort, err := strconv.Atoi(cfg.ServerPort)
	if err != nil {
		return fmt.Errorf("SERVER_PORT not a number: %q", cfg.ServerPort)
	}
	// По умолчанию gRPC слушает порт HTTP + 1
	cfg.GRPCPort = getEnv("GRPC_PORT", strconv.Itoa(httpPort+1))
	if _, err := strconv.Atoi(cfg.GRPCPort); err != nil {
		return fmt.Errorf("GRPC_PORT not a number: %q", cfg.GRPCPort)
	}

	if cfg.JWTExpirationMinutes, err = getEnvInt("JWT_EXPIRATION_MINUTES", 60); err != nil {
		return err
	}
	if cfg.GRPCTimeout, err = getEnvMilliseconds("GRPC_TIMEOUT_MS", 5000*time.Millisecond); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = getEnvMilliseconds("SHUTDOWN_TIMEOUT_MS", 10*time.Second); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s not a number: %q", key, value)
	}
	if intVal <= 0 {
		return 0, fmt.Errorf("%s must be positive: %d", key, intVal)
	}
	return intVal, nil
}

func getEnvMilliseconds(key string, defaultValue time.Duration) (time.Duration, error) {
	value, err := getEnvInt(key, int(defaultValue/time.Millisecond))
	if err != nil {
		return 0, err
	}
	return time.Duration(value) * time.Millisecond, nil
}
