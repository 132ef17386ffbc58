package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	DefinitionStore DefinitionStoreConfig
	EventStore      EventStoreConfig
	Auth            AuthConfig
	Callback        CallbackConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// DefinitionStoreConfig holds the connection settings for the external
// case-type definition store, which runs on SQL Server.
type DefinitionStoreConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

func (d DefinitionStoreConfig) DSN() string {
	return fmt.Sprintf(
		"sqlserver://%s:%s@%s:%d?database=%s",
		d.User, d.Password, d.Host, d.Port, d.Database,
	)
}

// EventStoreConfig holds configuration for the append-only audit
// event store (EventStoreDB).
type EventStoreConfig struct {
	Host     string
	Port     int
	Insecure bool
	Username string
	Password string
}

func (e EventStoreConfig) ConnectionString() string {
	scheme := "esdb"
	creds := ""
	if e.Username != "" {
		creds = fmt.Sprintf("%s:%s@", e.Username, e.Password)
	}
	tls := ""
	if e.Insecure {
		tls = "?tls=false"
	}
	return fmt.Sprintf("%s://%s%s:%d%s", scheme, creds, e.Host, e.Port, tls)
}

type AuthConfig struct {
	JWTSecret string
}

// CallbackConfig holds settings for mid-event callback invocation.
type CallbackConfig struct {
	TimeoutSeconds int
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 4452),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "casedata"),
			Password: getEnv("DB_PASSWORD", "casedata"),
			Database: getEnv("DB_NAME", "casedata"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		DefinitionStore: DefinitionStoreConfig{
			Host:     getEnv("DEFINITION_STORE_HOST", "localhost"),
			Port:     getEnvInt("DEFINITION_STORE_PORT", 1433),
			User:     getEnv("DEFINITION_STORE_USER", "definitions"),
			Password: getEnv("DEFINITION_STORE_PASSWORD", ""),
			Database: getEnv("DEFINITION_STORE_NAME", "definitions"),
		},
		EventStore: EventStoreConfig{
			Host:     getEnv("EVENTSTORE_HOST", "localhost"),
			Port:     getEnvInt("EVENTSTORE_PORT", 2113),
			Insecure: getEnvBool("EVENTSTORE_INSECURE", true),
			Username: getEnv("EVENTSTORE_USERNAME", ""),
			Password: getEnv("EVENTSTORE_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
		},
		Callback: CallbackConfig{
			TimeoutSeconds: getEnvInt("CALLBACK_TIMEOUT_SECONDS", 30),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
