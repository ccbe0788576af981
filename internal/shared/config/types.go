package config

import (
	"fmt"
	"strings"
)

type ServerConfig struct {
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port"`
	Mode    string `mapstructure:"mode" yaml:"mode"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// AllowedOrigins lists the front-end origins permitted to call the API
	// with credentials.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

// GoogleConfig holds the identity client and the two Google workspaces the
// service writes to: the spreadsheet holding dealer rows and the Drive folder
// holding uploaded documents.
type GoogleConfig struct {
	ClientID           string  `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret       string  `mapstructure:"client_secret" yaml:"client_secret"`
	VerifyURL          string  `mapstructure:"verify_url" yaml:"verify_url"`
	SheetID            string  `mapstructure:"sheet_id" yaml:"sheet_id"`
	FolderID           string  `mapstructure:"folder_id" yaml:"folder_id"`
	SheetName          string  `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetsBaseURL      string  `mapstructure:"sheets_base_url" yaml:"sheets_base_url"`
	DriveUploadBaseURL string  `mapstructure:"drive_upload_base_url" yaml:"drive_upload_base_url"`
	DriveViewBaseURL   string  `mapstructure:"drive_view_base_url" yaml:"drive_view_base_url"`
	DiscoveryURL       string  `mapstructure:"discovery_url" yaml:"discovery_url"`
	RequestsPerSecond  float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

type AuthConfig struct {
	AllowedEmails  []string `mapstructure:"allowed_emails" yaml:"allowed_emails"`
	SessionCookie  string   `mapstructure:"session_cookie" yaml:"session_cookie"`
	CookieSecure   bool     `mapstructure:"cookie_secure" yaml:"cookie_secure"`
	CookieSameSite string   `mapstructure:"cookie_same_site" yaml:"cookie_same_site"`
	// SignInLimit is the number of sign-in attempts allowed per client IP
	// per minute; zero disables the limit.
	SignInLimit int `mapstructure:"sign_in_limit" yaml:"sign_in_limit"`
}

type UploadConfig struct {
	Concurrency  int   `mapstructure:"concurrency" yaml:"concurrency"`
	MaxFileBytes int64 `mapstructure:"max_file_bytes" yaml:"max_file_bytes"`
}

type RedisConfig struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
	Host           string `mapstructure:"host" yaml:"host"`
	Port           int    `mapstructure:"port" yaml:"port"`
	Password       string `mapstructure:"password" yaml:"password"`
	DB             int    `mapstructure:"db" yaml:"db"`
	SessionPrefix  string `mapstructure:"session_prefix" yaml:"session_prefix"`
	LockTTLSeconds int    `mapstructure:"lock_ttl_seconds" yaml:"lock_ttl_seconds"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MaskSecret keeps the first and last two characters of a secret.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
