package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Google   GoogleConfig   `mapstructure:"google"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Report   ReportConfig   `mapstructure:"report"`
	Database DatabaseConfig `mapstructure:"database"`
	AI       AIConfig       `mapstructure:"ai"`
}

type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
}

type ProbeConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

type StorageConfig struct {
	Output    string `mapstructure:"output"`
	Inbox     string `mapstructure:"inbox"`
	Processed string `mapstructure:"processed"`
}

type ReportConfig struct {
	Format string `mapstructure:"format"` // json, md, html
}

type AIConfig struct {
	Key   string `mapstructure:"key"`
	Model string `mapstructure:"model"`
}

func (c *AIConfig) Enabled() bool {
	return c.Key != ""
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Options  string `mapstructure:"options"`
}

func (c *DatabaseConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

func (c *DatabaseConfig) GetConnectStr() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, sslmode)

	if c.Options != "" {
		// Basic URL encoding for the options value: space -> %20
		encodedOptions := strings.ReplaceAll(c.Options, " ", "%20")
		connStr += fmt.Sprintf("&options=%s", encodedOptions)
	}

	return connStr
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not found, using system environment variables")
	}

	viper.SetConfigFile("config.yaml") // Support optional config.yaml
	viper.AutomaticEnv()

	// Environment variable mappings
	mappings := []struct {
		key, env string
	}{
		{"google.credentials_file", "GOOGLE_CREDENTIALS_FILE"},
		{"google.token_file", "GOOGLE_TOKEN_FILE"},

		{"probe.max_attempts", "PROBE_MAX_ATTEMPTS"},
		{"probe.base_delay", "PROBE_BASE_DELAY"},

		// Storage
		{"storage.output", "STORAGE_OUTPUT"},
		{"storage.inbox", "STORAGE_INBOX"},
		{"storage.processed", "STORAGE_PROCESSED"},

		{"report.format", "REPORT_FORMAT"},

		{"database.url", "DB_URL"},
		{"database.host", "PG_HOST"},
		{"database.port", "PG_PORT"},
		{"database.user", "PG_USER"},
		{"database.password", "PG_PASSWORD"},
		{"database.dbname", "PG_DB"},
		{"database.sslmode", "PG_SSLMODE"},
		{"database.options", "PG_OPTIONS"},

		{"ai.key", "GEMINI_KEY"},
		{"ai.model", "GEMINI_MODEL"},
	}

	for _, m := range mappings {
		viper.BindEnv(m.key, m.env)
	}

	// Defaults
	viper.SetDefault("google.credentials_file", "credentials.json")
	viper.SetDefault("google.token_file", "token.json")
	viper.SetDefault("probe.max_attempts", 3)
	viper.SetDefault("probe.base_delay", time.Second)
	viper.SetDefault("storage.output", ".")
	viper.SetDefault("storage.inbox", "inbox")
	viper.SetDefault("storage.processed", "processed")
	viper.SetDefault("report.format", "json")
	viper.SetDefault("ai.model", "gemini-2.5-flash-preview-09-2025")

	if err := viper.ReadInConfig(); err != nil {
		// Ignore if config.yaml is missing
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
