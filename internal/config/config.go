package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"drivequest-fleet/internal/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageTypeFile     = "file"
	StorageTypePostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Pricing   PricingConfig   `yaml:"pricing"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Type         string `yaml:"type"` // "file" or "postgres"
	DataDir      string `yaml:"data_dir"`
	VehiclesFile string `yaml:"vehicles_file"`
	RentalsFile  string `yaml:"rentals_file"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SnapshotFleet        string `yaml:"snapshot_fleet"`
	ReportOverdueRentals string `yaml:"report_overdue_rentals"`
}

// PricingConfig overrides the invoice rates. Zero values keep the defaults.
type PricingConfig struct {
	VATRate           float64 `yaml:"vat_rate"`
	CargoDiscount     float64 `yaml:"cargo_discount"`
	PassengerDiscount float64 `yaml:"passenger_discount"`
	LongTermDays      int     `yaml:"long_term_days"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	return LoadWithEnvFile(configPath, "")
}

// LoadWithEnvFile loads envFile (if given and present) into the process
// environment before reading the YAML file. Variables already set win.
func LoadWithEnvFile(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadDefault returns a file-backed configuration without reading any YAML.
// Environment overrides still apply.
func LoadDefault() (*Config, error) {
	cfg := Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 8080},
		Storage: StorageConfig{Type: StorageTypeFile},
	}
	cfg.overrideWithEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("STORAGE_TYPE"); val != "" {
		c.Storage.Type = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.Storage.DataDir = val
	}
	if val := os.Getenv("VEHICLES_FILE"); val != "" {
		c.Storage.VehiclesFile = val
	}
	if val := os.Getenv("RENTALS_FILE"); val != "" {
		c.Storage.RentalsFile = val
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Pricing
	if val := os.Getenv("VAT_RATE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.Pricing.VATRate = f
		}
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.Type == "" {
		c.Storage.Type = StorageTypeFile
	}
	switch c.Storage.Type {
	case StorageTypeFile:
		if c.Storage.DataDir == "" {
			c.Storage.DataDir = "data"
		}
		if c.Storage.VehiclesFile == "" {
			c.Storage.VehiclesFile = "vehicles.dat"
		}
		if c.Storage.RentalsFile == "" {
			c.Storage.RentalsFile = "rentals.dat"
		}
	case StorageTypePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Scheduler.SnapshotFleet == "" {
		c.Scheduler.SnapshotFleet = "0 0 * * * *" // hourly
	}
	if c.Scheduler.ReportOverdueRentals == "" {
		c.Scheduler.ReportOverdueRentals = "0 0 6 * * *" // 6 AM UTC
	}

	if c.Pricing.VATRate < 0 || c.Pricing.VATRate >= 1 {
		return fmt.Errorf("invalid VAT rate: %v", c.Pricing.VATRate)
	}
	if c.Pricing.CargoDiscount < 0 || c.Pricing.CargoDiscount >= 1 {
		return fmt.Errorf("invalid cargo discount: %v", c.Pricing.CargoDiscount)
	}
	if c.Pricing.PassengerDiscount < 0 || c.Pricing.PassengerDiscount >= 1 {
		return fmt.Errorf("invalid passenger discount: %v", c.Pricing.PassengerDiscount)
	}
	if c.Pricing.LongTermDays < 0 {
		return fmt.Errorf("invalid long term days: %d", c.Pricing.LongTermDays)
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// VehiclesPath returns the vehicles file path, resolved against the data dir
func (c *Config) VehiclesPath() string {
	return resolve(c.Storage.DataDir, c.Storage.VehiclesFile)
}

// RentalsPath returns the rental periods file path, resolved against the data dir
func (c *Config) RentalsPath() string {
	return resolve(c.Storage.DataDir, c.Storage.RentalsFile)
}

func resolve(dir, file string) string {
	if filepath.IsAbs(file) || dir == "" {
		return file
	}
	return filepath.Join(dir, file)
}

// Rates returns the invoice rates with configured overrides applied
func (c *Config) Rates() utils.Rates {
	rates := utils.DefaultRates()
	if c.Pricing.VATRate > 0 {
		rates.VATRate = c.Pricing.VATRate
	}
	if c.Pricing.CargoDiscount > 0 {
		rates.CargoDiscount = c.Pricing.CargoDiscount
	}
	if c.Pricing.PassengerDiscount > 0 {
		rates.PassengerDiscount = c.Pricing.PassengerDiscount
	}
	if c.Pricing.LongTermDays > 0 {
		rates.LongTermDays = c.Pricing.LongTermDays
	}
	return rates
}
