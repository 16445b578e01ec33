// Package config provides Viper-based hierarchical configuration: defaults,
// then an optional config file, then environment variables, plus a .env file
// loaded via godotenv for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var loadEnvOnce sync.Once

// Config is the complete application configuration. It is never serialized;
// the token and auth key in particular only ever flow from the environment
// into this struct.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Bot struct {
		Token string `mapstructure:"token"`
	} `mapstructure:"bot"`

	Speech struct {
		AuthKey            string `mapstructure:"auth_key"`
		APIURL             string `mapstructure:"api_url"`
		AuthURL            string `mapstructure:"auth_url"`
		SampleRate         int    `mapstructure:"sample_rate"`
		InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
	} `mapstructure:"speech"`

	Sheets struct {
		CredentialsFile string   `mapstructure:"credentials_file"`
		SpreadsheetIDs  []string `mapstructure:"spreadsheet_ids"`
	} `mapstructure:"sheets"`

	Data struct {
		Directory        string `mapstructure:"directory"`
		CategoriesFile   string `mapstructure:"categories_file"`
		AllowedUsersFile string `mapstructure:"allowed_users_file"`
	} `mapstructure:"data"`
}

// CategoriesPath returns the full path of the synonym-table file.
func (c *Config) CategoriesPath() string {
	return filepath.Join(c.Data.Directory, c.Data.CategoriesFile)
}

// AllowedUsersPath returns the full path of the allow-list file.
func (c *Config) AllowedUsersPath() string {
	return filepath.Join(c.Data.Directory, c.Data.AllowedUsersFile)
}

// LoadEnv loads environment variables from a .env file if one exists in the
// current or parent directory.
func LoadEnv() {
	loadEnvOnce.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}

// InitializeConfig builds the configuration from defaults, an optional
// config file, and environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ledgerbot")
	v.AddConfigPath(".ledgerbot")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Missing config file is fine, defaults and env vars apply.
	}

	// Secrets come from unprefixed environment variables only, never from
	// the config file.
	for key, env := range map[string]string{
		"bot.token":               "TELEGRAM_BOT_TOKEN",
		"speech.auth_key":         "SALUTE_SPEECH_AUTH_KEY",
		"speech.api_url":          "SALUTE_SPEECH_API_URL",
		"speech.auth_url":         "SALUTE_SPEECH_API_AUTH_URL",
		"sheets.credentials_file": "GOOGLE_SHEETS_CREDENTIALS_FILE",
	} {
		if err := v.BindEnv(key, env); err != nil {
			fmt.Printf("Warning: failed to bind %s environment variable: %v\n", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("speech.api_url", "https://smartspeech.sber.ru/rest/v1")
	v.SetDefault("speech.auth_url", "https://ngw.devices.sberbank.ru:9443/api/v2/oauth")
	v.SetDefault("speech.sample_rate", 48000)
	v.SetDefault("speech.insecure_skip_verify", false)

	v.SetDefault("sheets.spreadsheet_ids", []string{})

	v.SetDefault("data.directory", "data")
	v.SetDefault("data.categories_file", "categories.json")
	v.SetDefault("data.allowed_users_file", "allowed_users.json")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Speech.SampleRate <= 0 {
		return fmt.Errorf("speech.sample_rate must be positive, got: %d", config.Speech.SampleRate)
	}

	if config.Data.CategoriesFile == "" {
		return fmt.Errorf("data.categories_file must not be empty")
	}

	return nil
}
