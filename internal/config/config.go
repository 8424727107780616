package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	Store    StoreConfig
	Wallet   WalletConfig
	Recharge RechargeConfig
	Order    OrderConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string
}

// StoreConfig selects the backend of the persistent key-value store
type StoreConfig struct {
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// WalletConfig holds role seed balances
type WalletConfig struct {
	SeedStudent        int64
	SeedMessOwner      int64
	SeedProvider       int64
	WelcomeDescription string
}

// RechargeConfig holds the periodic student recharge job settings
type RechargeConfig struct {
	Enabled     bool
	Schedule    string
	Amount      int64
	Description string
}

// OrderConfig holds order settlement settings
type OrderConfig struct {
	StrictTransitions bool
}

// Store drivers
const (
	StoreDatabase = "database"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Database drivers
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}
	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: database,
		Store:    store,
		Wallet:   loadWalletConfig(),
		Recharge: loadRechargeConfig(),
		Order: OrderConfig{
			StrictTransitions: getEnvBool("ORDER_STRICT_TRANSITIONS", true),
		},
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORE: %s]", appMode, store.Driver)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := "DEV_"
	defaultDriver := DriverSQLite
	if mode == "prod" {
		prefix = "PROD_"
		defaultDriver = DriverMySQL
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", defaultDriver))
	if driver != DriverMySQL && driver != DriverSQLite {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'sqlite')", driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "messpay"),
		Path:     getEnv("SQLITE_PATH", "messpay.db"),
	}, nil
}

// loadStoreConfig loads the persistent store backend config
func loadStoreConfig() (StoreConfig, error) {
	driver := strings.ToLower(getEnv("STORE_DRIVER", StoreDatabase))
	switch driver {
	case StoreDatabase, StoreRedis, StoreMemory:
	default:
		return StoreConfig{}, fmt.Errorf("invalid STORE_DRIVER: '%s' (must be 'database', 'redis' or 'memory')", driver)
	}

	return StoreConfig{
		Driver:        driver,
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		KeyPrefix:     getEnv("STORE_KEY_PREFIX", "messpay:"),
	}, nil
}

// loadWalletConfig loads wallet seed balances
func loadWalletConfig() WalletConfig {
	return WalletConfig{
		SeedStudent:        int64(getEnvInt("WALLET_SEED_STUDENT", 100)),
		SeedMessOwner:      int64(getEnvInt("WALLET_SEED_MESS_OWNER", 50)),
		SeedProvider:       int64(getEnvInt("WALLET_SEED_PROVIDER", 85)),
		WelcomeDescription: getEnv("WALLET_WELCOME_DESCRIPTION", "Welcome bonus"),
	}
}

// loadRechargeConfig loads the recharge job config
func loadRechargeConfig() RechargeConfig {
	return RechargeConfig{
		Enabled:     getEnvBool("RECHARGE_ENABLED", true),
		Schedule:    getEnv("RECHARGE_SCHEDULE", "@monthly"),
		Amount:      int64(getEnvInt("RECHARGE_AMOUNT", 50)),
		Description: getEnv("RECHARGE_DESCRIPTION", "Monthly token recharge"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable, falling back on parse errors
func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvBool gets a boolean environment variable, falling back on parse errors
func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// The mobile client talks to the service on the same device
		return "http://localhost"
	}
	return origins
}
