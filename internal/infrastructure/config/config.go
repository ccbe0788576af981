package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/ntwoods/dealerdocs/internal/shared/config"
	apperrors "github.com/ntwoods/dealerdocs/internal/shared/errors"
)

// DefaultAllowedEmails is the allowlist used when none is configured.
var DefaultAllowedEmails = []string{
	"mis01@ntwoods.com",
	"parakhagrawalntw@gmail.com",
	"info@ntwoods.com",
	"pawanagarwalntw@gmail.com",
	"nitishagarwalntw@gmail.com",
	"ea01@ntwoods.com",
}

type Config struct {
	Server sharedConfig.ServerConfig `mapstructure:"server" yaml:"server"`
	Logger sharedConfig.LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Google sharedConfig.GoogleConfig `mapstructure:"google" yaml:"google"`
	Auth   sharedConfig.AuthConfig   `mapstructure:"auth" yaml:"auth"`
	Upload sharedConfig.UploadConfig `mapstructure:"upload" yaml:"upload"`
	Redis  sharedConfig.RedisConfig  `mapstructure:"redis" yaml:"redis"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from an optional file and DEALERDOCS_* environment
// variables. A missing config file is not an error; missing required values
// are reported by Validate.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("DEALERDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindRequired(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.normalize()

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate reports every missing required value at once.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"google.client_id", c.Google.ClientID},
		{"google.client_secret", c.Google.ClientSecret},
		{"google.verify_url", c.Google.VerifyURL},
		{"google.sheet_id", c.Google.SheetID},
		{"google.folder_id", c.Google.FolderID},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, EnvName(r.key))
		}
	}
	if len(missing) > 0 {
		return apperrors.NewConfigurationError(missing...)
	}
	return nil
}

// EnvName returns the environment variable that feeds a config key.
func EnvName(key string) string {
	return "DEALERDOCS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func (c *Config) normalize() {
	if len(c.Auth.AllowedEmails) == 1 && strings.Contains(c.Auth.AllowedEmails[0], ",") {
		c.Auth.AllowedEmails = strings.Split(c.Auth.AllowedEmails[0], ",")
	}
	emails := make([]string, 0, len(c.Auth.AllowedEmails))
	for _, e := range c.Auth.AllowedEmails {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	c.Auth.AllowedEmails = emails
	if c.Upload.Concurrency <= 0 {
		c.Upload.Concurrency = 3
	}
}

// AutomaticEnv only resolves keys viper already knows about, so required keys
// without defaults are bound explicitly.
func bindRequired(v *viper.Viper) {
	for _, key := range []string{
		"google.client_id",
		"google.client_secret",
		"google.verify_url",
		"google.sheet_id",
		"google.folder_id",
		"redis.password",
	} {
		_ = v.BindEnv(key)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("google.sheet_name", "DealerDocs")
	v.SetDefault("google.sheets_base_url", "https://sheets.googleapis.com/v4")
	v.SetDefault("google.drive_upload_base_url", "https://www.googleapis.com/upload/drive/v3")
	v.SetDefault("google.drive_view_base_url", "https://drive.google.com/file/d")
	v.SetDefault("google.discovery_url", "https://accounts.google.com/.well-known/openid-configuration")
	v.SetDefault("google.requests_per_second", 0)

	v.SetDefault("auth.allowed_emails", DefaultAllowedEmails)
	v.SetDefault("auth.session_cookie", "dealer_docs_session")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.cookie_same_site", "lax")
	v.SetDefault("auth.sign_in_limit", 20)

	v.SetDefault("upload.concurrency", 3)
	v.SetDefault("upload.max_file_bytes", 25<<20)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_prefix", "dealer_docs_session:")
	v.SetDefault("redis.lock_ttl_seconds", 30)
}
